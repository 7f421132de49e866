package responder

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"lead-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLMProvider struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeLLMProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	if len(history) > 0 {
		f.lastPrompt = history[len(history)-1].Content
	}
	return f.reply, f.err
}

func (f *fakeLLMProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

func newTestLogger() *log.Logger {
	return log.New(os.Stdout, "[test] ", log.LstdFlags)
}

func TestRespondPromptLayout(t *testing.T) {
	provider := &fakeLLMProvider{reply: "We install solar panels."}
	r := NewResponder(provider, "Triad Flair", "heyaryan.com", newTestLogger())

	_, err := r.Respond(context.Background(), "What do you offer?", "Source: https://heyaryan.com/services\nContent: Solar installs.")
	require.NoError(t, err)

	expected := "User query: What do you offer?\n\n" +
		"Context:\nSource: https://heyaryan.com/services\nContent: Solar installs.\n\n" +
		"You are the chat support of website Triad Flair. Answer precisely and on-topic.\n\n" +
		"If outside scope, say you can only answer based on heyaryan.com."
	assert.Equal(t, expected, provider.lastPrompt)
}

func TestRespondTrimsModelOutput(t *testing.T) {
	provider := &fakeLLMProvider{reply: "  We install solar panels.\n"}
	r := NewResponder(provider, "Triad Flair", "heyaryan.com", newTestLogger())

	answer, err := r.Respond(context.Background(), "What do you offer?", "No relevant information found.")
	require.NoError(t, err)
	assert.Equal(t, "We install solar panels.", answer)
}

func TestRespondPropagatesGenerationError(t *testing.T) {
	provider := &fakeLLMProvider{err: errors.New("model unavailable")}
	r := NewResponder(provider, "Triad Flair", "heyaryan.com", newTestLogger())

	_, err := r.Respond(context.Background(), "What do you offer?", "No relevant information found.")
	assert.Error(t, err)
}
