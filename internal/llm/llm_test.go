package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kevinmichaelchen/gh-sms/internal/config"
	"github.com/stretchr/testify/require"
)

func fakeOpenAI(t *testing.T, handler func(body map[string]any) (int, any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		status, resp := handler(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientComplete(t *testing.T) {
	srv := fakeOpenAI(t, func(body map[string]any) (int, any) {
		require.Equal(t, "gpt-4o", body["model"])
		require.EqualValues(t, 700, body["max_tokens"])
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 2)
		require.Equal(t, "system", msgs[0].(map[string]any)["role"])
		require.Equal(t, "be brief", msgs[0].(map[string]any)["content"])
		require.Equal(t, "user", msgs[1].(map[string]any)["role"])
		require.Equal(t, "summarize this", msgs[1].(map[string]any)["content"])
		return http.StatusOK, map[string]any{
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "  short summary \n"}},
			},
		}
	})

	c := NewClient("openai", srv.URL+"/", "test-key", "gpt-4o")
	require.Equal(t, "openai", c.Name())

	out, err := c.Complete(context.Background(), Request{
		System:      "be brief",
		Prompt:      "summarize this",
		MaxTokens:   700,
		Temperature: 0.2,
	})
	require.NoError(t, err)
	require.Equal(t, "short summary", out)
}

func TestClientCompleteNoChoices(t *testing.T) {
	srv := fakeOpenAI(t, func(map[string]any) (int, any) {
		return http.StatusOK, map[string]any{"choices": []any{}}
	})

	_, err := NewClient("openai", srv.URL, "test-key", "gpt-4o").Complete(context.Background(), Request{Prompt: "x"})
	require.ErrorIs(t, err, ErrNoChoices)
}

func TestClientCompleteAPIError(t *testing.T) {
	srv := fakeOpenAI(t, func(map[string]any) (int, any) {
		return http.StatusTooManyRequests, map[string]any{
			"error": map[string]any{"message": "slow down", "type": "rate_limit"},
		}
	})

	_, err := NewClient("github-models", srv.URL, "test-key", "openai/gpt-4o").Complete(context.Background(), Request{Prompt: "x"})
	require.ErrorContains(t, err, "github-models completion")
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Complete(context.Background(), Request{})
	require.ErrorIs(t, err, ErrDisabled)
}

func TestNewSelectsProvider(t *testing.T) {
	require.Equal(t, "github-models", New(&config.Config{GitHubModelsToken: "a", OpenAIAPIKey: "b"}).Name())
	require.Equal(t, "openai", New(&config.Config{OpenAIAPIKey: "b"}).Name())
	require.Equal(t, "disabled", New(&config.Config{}).Name())
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "single line", in: "```json {\"a\":1}```", want: `{"a":1}`},
		{name: "upper tag", in: "```JSON\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding space", in: "\n  ```json\n{\"a\":1}\n```  \n", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}
