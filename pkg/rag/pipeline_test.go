package rag

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"lead-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type fakeRetriever struct {
	docs      []store.RetrievedDocument
	err       error
	lastQuery string
	calls     int
}

func (f *fakeRetriever) Retrieve(_ context.Context, query string, _ int) ([]store.RetrievedDocument, error) {
	f.calls++
	f.lastQuery = query
	return f.docs, f.err
}

type fakeResponder struct {
	reply       string
	err         error
	lastContext string
	calls       int
}

func (f *fakeResponder) Respond(_ context.Context, _ string, contextBlock string) (string, error) {
	f.calls++
	f.lastContext = contextBlock
	return f.reply, f.err
}

func newTestLogger() *log.Logger {
	return log.New(os.Stdout, "[test] ", log.LstdFlags)
}

func TestPipelineAnswerWithDocuments(t *testing.T) {
	ret := &fakeRetriever{docs: []store.RetrievedDocument{
		{URL: "https://example.com/services", Content: "We offer plumbing.", Score: 0.91},
		{URL: "https://example.com/areas", Content: "We serve the metro area.", Score: 0.72},
	}}
	res := &fakeResponder{reply: "We offer plumbing in the metro area."}

	p := NewPipeline(ret, res, 3, newTestLogger())
	answer := p.Answer(context.Background(), "What do you offer?")

	assert.Equal(t, "We offer plumbing in the metro area.", answer)
	assert.Equal(t, "What do you offer?", ret.lastQuery)
	assert.Equal(t,
		"Source: https://example.com/services\nContent: We offer plumbing.\n\n"+
			"Source: https://example.com/areas\nContent: We serve the metro area.",
		res.lastContext,
	)
}

func TestPipelineAnswerWithoutDocumentsStillGenerates(t *testing.T) {
	ret := &fakeRetriever{docs: nil}
	res := &fakeResponder{reply: "I could not find anything specific."}

	p := NewPipeline(ret, res, 3, newTestLogger())
	answer := p.Answer(context.Background(), "Do you sell rockets?")

	assert.Equal(t, 1, res.calls, "model must be invoked even with zero documents")
	assert.Equal(t, NoContextSentinel, res.lastContext)
	assert.NotEmpty(t, answer)
}

func TestPipelineAnswerRetrievalFailureDegrades(t *testing.T) {
	ret := &fakeRetriever{err: errors.New("embedding service down")}
	res := &fakeResponder{reply: "Happy to help anyway."}

	p := NewPipeline(ret, res, 3, newTestLogger())
	answer := p.Answer(context.Background(), "What areas do you serve?")

	assert.Equal(t, "Happy to help anyway.", answer)
	assert.Equal(t, NoContextSentinel, res.lastContext)
}

func TestPipelineAnswerGenerationFailureFallsBack(t *testing.T) {
	ret := &fakeRetriever{docs: []store.RetrievedDocument{{URL: "u", Content: "c"}}}
	res := &fakeResponder{err: errors.New("model unavailable")}

	p := NewPipeline(ret, res, 3, newTestLogger())
	answer := p.Answer(context.Background(), "anything")

	assert.Equal(t, FallbackResponse, answer)
}

func TestBuildContext(t *testing.T) {
	assert.Equal(t, NoContextSentinel, BuildContext(nil))

	docs := []store.RetrievedDocument{{URL: "https://a", Content: "b"}}
	assert.Equal(t, "Source: https://a\nContent: b", BuildContext(docs))
}
