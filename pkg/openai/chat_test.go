package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestCreateChatCompletion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, RoleSystem, req.Messages[0].Role)
		assert.Equal(t, RoleUser, req.Messages[1].Role)
		assert.False(t, req.Stream)

		writeJSON(t, w, http.StatusOK, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "Hello!"}, "finish_reason": "stop"}
			],
			"usage": {"prompt_tokens": 9, "completion_tokens": 3, "total_tokens": 12}
		}`)
	})

	resp, err := client.CreateChatCompletion(context.Background(), ChatRequest{
		Model: "gpt-4o-mini",
		Messages: []ChatMessage{
			SystemMessage("You are terse."),
			UserMessage("Say hello."),
		},
	})
	require.NoError(t, err)

	choice := resp.First()
	require.NotNil(t, choice)
	assert.Equal(t, "Hello!", choice.Message.Content)
	assert.Equal(t, "stop", choice.FinishReason)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestChatRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      ChatRequest
		wantCode string
	}{
		{
			name: "valid",
			req: ChatRequest{
				Model:       "gpt-4o-mini",
				Temperature: floatPtr(1.5),
				Stop:        []string{"a", "b", "c", "d"},
			},
		},
		{
			name:     "temperature too high",
			req:      ChatRequest{Model: "m", Temperature: floatPtr(2.5)},
			wantCode: "invalid_temperature",
		},
		{
			name:     "presence penalty too low",
			req:      ChatRequest{Model: "m", PresencePenalty: floatPtr(-3)},
			wantCode: "invalid_presence_penalty",
		},
		{
			name:     "frequency penalty too high",
			req:      ChatRequest{Model: "m", FrequencyPenalty: floatPtr(2.1)},
			wantCode: "invalid_frequency_penalty",
		},
		{
			name:     "too many stop sequences",
			req:      ChatRequest{Model: "m", Stop: []string{"a", "b", "c", "d", "e"}},
			wantCode: "invalid_stop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, "invalid_request_error", apiErr.Type)
		})
	}
}

func TestCreateChatCompletion_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized,
			`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)
	})

	_, err := client.CreateChatCompletion(context.Background(), ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{UserMessage("hi")},
	})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_api_key", apiErr.Code)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestCreateChatCompletionStream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		require.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		for _, frame := range []string{
			`{"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"role":"assistant"},"finish_reason":null}]}`,
			`{"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"Hel"},"finish_reason":null}]}`,
			`{"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"lo"},"finish_reason":null}]}`,
			`{"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
			`[DONE]`,
		} {
			_, err := w.Write([]byte("data: " + frame + "\n\n"))
			require.NoError(t, err)
			flusher.Flush()
		}
	})

	stream, err := client.CreateChatCompletionStream(context.Background(), ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{UserMessage("Say hello.")},
	})
	require.NoError(t, err)
	defer func() { _ = stream.Close() }()

	var content string
	var finish *string
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.Len(t, chunk.Choices, 1)
		content += chunk.Choices[0].Delta.Content
		if chunk.Choices[0].FinishReason != nil {
			finish = chunk.Choices[0].FinishReason
		}
	}

	assert.Equal(t, "Hello", content)
	require.NotNil(t, finish)
	assert.Equal(t, "stop", *finish)
}

func TestCreateChatCompletionStream_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusTooManyRequests,
			`{"error":{"message":"Rate limit reached","type":"rate_limit_error"}}`)
	})

	_, err := client.CreateChatCompletionStream(context.Background(), ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{UserMessage("hi")},
	})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "rate_limit_error", apiErr.Type)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}
