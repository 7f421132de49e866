package retriever

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"lead-chatbot-be/internal/entity"
	"lead-chatbot-be/internal/repository/contract"
	"lead-chatbot-be/internal/repository/specification"
	"lead-chatbot-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmbeddingProvider struct {
	values []float32
	err    error
}

func (f *fakeEmbeddingProvider) Generate(_ string, _ string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: f.values},
	}, nil
}

type fakeEmbeddingRepo struct {
	chunks      []*contract.ScoredChunk
	err         error
	searchCalls int
}

var _ contract.KnowledgeEmbeddingRepository = &fakeEmbeddingRepo{}

func (f *fakeEmbeddingRepo) Create(context.Context, *entity.KnowledgeEmbedding) error {
	return nil
}

func (f *fakeEmbeddingRepo) DeleteByDocumentId(context.Context, uuid.UUID) error {
	return nil
}

func (f *fakeEmbeddingRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(f.chunks)), nil
}

func (f *fakeEmbeddingRepo) SearchSimilarWithScore(_ context.Context, _ []float32, _ int) ([]*contract.ScoredChunk, error) {
	f.searchCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

func newTestRetriever(p embedding.EmbeddingProvider, repo contract.KnowledgeEmbeddingRepository) *Retriever {
	return NewRetriever(p, repo, log.New(os.Stdout, "[test] ", log.LstdFlags))
}

func TestRetrieveMapsScoredChunks(t *testing.T) {
	repo := &fakeEmbeddingRepo{chunks: []*contract.ScoredChunk{
		{Chunk: "We offer plumbing.", Url: "https://example.com/services", Similarity: 0.93},
		{Chunk: "Contact us.", Url: "https://example.com/contact", Similarity: 0.41},
	}}
	r := newTestRetriever(&fakeEmbeddingProvider{values: []float32{0.1, 0.2}}, repo)

	docs, err := r.Retrieve(context.Background(), "services?", 3)
	assert.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, "https://example.com/services", docs[0].URL)
	assert.Equal(t, "We offer plumbing.", docs[0].Content)
	assert.InDelta(t, 0.93, float64(docs[0].Score), 0.0001)
}

func TestRetrieveEmbeddingFailureSkipsIndex(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	r := newTestRetriever(&fakeEmbeddingProvider{err: errors.New("quota exceeded")}, repo)

	docs, err := r.Retrieve(context.Background(), "services?", 3)
	assert.Error(t, err)
	assert.Nil(t, docs)
	assert.Zero(t, repo.searchCalls, "index must not be queried when embedding fails")
}

func TestRetrieveSearchFailurePropagates(t *testing.T) {
	repo := &fakeEmbeddingRepo{err: errors.New("connection refused")}
	r := newTestRetriever(&fakeEmbeddingProvider{values: []float32{0.5}}, repo)

	docs, err := r.Retrieve(context.Background(), "anything", 3)
	assert.Error(t, err)
	assert.Nil(t, docs)
}
