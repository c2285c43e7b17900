package ai_client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"AI-Study-Buddy/internal/config"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Text("\n  Gravity pulls "),
				genai.Blob{MIMEType: "image/png", Data: []byte{1}},
				genai.Text("things together.  \n"),
			}}},
			nil,
			{Content: nil},
		},
	}
	assert.Equal(t, "Gravity pulls things together.", responseText(resp))
	assert.Equal(t, "", responseText(nil))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("googleapi: Error 429: quota exceeded")
	err := error(&GenerationError{Model: DefaultModel, Err: cause})

	assert.Equal(t, "googleapi: Error 429: quota exceeded", err.Error())
	assert.ErrorIs(t, err, cause)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, DefaultModel, genErr.Model)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), config.Credentials{}, "", nil)
	assert.ErrorIs(t, err, config.ErrAPIKeyMissing)
}

func TestGenerateOnUninitializedClient(t *testing.T) {
	var gc *GeminiClient
	_, err := gc.Generate(context.Background(), "hello")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.NoError(t, gc.Close())
}

func TestNewGeminiClientDefaultsModel(t *testing.T) {
	gc, err := NewGeminiClient(context.Background(), config.NewCredentials("test-key"), "", nil)
	require.NoError(t, err)
	defer gc.Close()

	assert.Equal(t, DefaultModel, gc.Model())
}

// newTestClient は固定のレスポンスを返すサーバーに向けた GeminiClient を作ります。
func newTestClient(t *testing.T, status int, body string) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	gc, err := NewGeminiClient(context.Background(), config.NewCredentials("test-key"), "", nil, option.WithEndpoint(srv.URL))
	require.NoError(t, err)
	t.Cleanup(func() { _ = gc.Close() })
	return gc
}

func TestGenerateTrimsAnswer(t *testing.T) {
	gc := newTestClient(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"  hello  "}]}}]}`)

	answer, err := gc.Generate(context.Background(), "Say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", answer)
}

func TestGenerateWrapsQuotaError(t *testing.T) {
	gc := newTestClient(t, http.StatusTooManyRequests,
		`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)

	answer, err := gc.Generate(context.Background(), "Say hello")
	assert.Empty(t, answer)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, DefaultModel, genErr.Model)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateEmptyAnswer(t *testing.T) {
	gc := newTestClient(t, http.StatusOK, `{"candidates":[]}`)

	_, err := gc.Generate(context.Background(), "Say hello")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, ErrEmptyAnswer)
}
