package openai

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTranscription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requireAuth(t, r)
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "de", r.FormValue("language"))
		assert.Equal(t, "0.2", r.FormValue("temperature"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "speech.mp3", header.Filename)

		writeJSON(t, w, http.StatusOK, `{"text": "Guten Tag."}`)
	})

	resp, err := client.CreateTranscription(context.Background(), AudioRequest{
		File:        strings.NewReader("audio-bytes"),
		Filename:    "speech.mp3",
		Language:    "de",
		Temperature: floatPtr(0.2),
	})
	require.NoError(t, err)
	assert.Equal(t, "Guten Tag.", resp.Text)
}

func TestCreateTranslation_OmitsLanguage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/translations", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Empty(t, r.FormValue("language"), "translation requests must not carry a language")
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		writeJSON(t, w, http.StatusOK, `{"text": "Good day."}`)
	})

	resp, err := client.CreateTranslation(context.Background(), AudioRequest{
		File:     strings.NewReader("audio-bytes"),
		Filename: "speech.mp3",
		Language: "de",
	})
	require.NoError(t, err)
	assert.Equal(t, "Good day.", resp.Text)
}

func TestCreateTranscription_VerboseJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))

		writeJSON(t, w, http.StatusOK, `{
			"task": "transcribe",
			"language": "english",
			"duration": 1.5,
			"segments": [{"id": 0, "start": 0, "end": 1.5, "text": "Hello there."}],
			"text": "Hello there."
		}`)
	})

	resp, err := client.CreateTranscription(context.Background(), AudioRequest{
		File:           strings.NewReader("audio-bytes"),
		Filename:       "speech.wav",
		ResponseFormat: AudioFormatVerboseJSON,
	})
	require.NoError(t, err)
	assert.Equal(t, "transcribe", resp.Task)
	require.Len(t, resp.Segments, 1)
	assert.Equal(t, "Hello there.", resp.Segments[0].Text)
}

func TestCreateTranscription_TextPassthrough(t *testing.T) {
	const srt = "1\n00:00:00,000 --> 00:00:01,500\nHello there.\n"

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "srt", r.FormValue("response_format"))

		w.Header().Set("Content-Type", "text/plain")
		_, err := w.Write([]byte(srt))
		require.NoError(t, err)
	})

	resp, err := client.CreateTranscription(context.Background(), AudioRequest{
		File:           strings.NewReader("audio-bytes"),
		Filename:       "speech.wav",
		ResponseFormat: AudioFormatSRT,
	})
	require.NoError(t, err)
	assert.Equal(t, srt, resp.Text)
	assert.Empty(t, resp.Segments)
}

func TestCreateTranscription_Validation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the server")
	})

	var apiErr *Error

	_, err := client.CreateTranscription(context.Background(), AudioRequest{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "missing_file", apiErr.Code)

	_, err = client.CreateTranscription(context.Background(), AudioRequest{
		File:        strings.NewReader("audio-bytes"),
		Temperature: floatPtr(1.5),
	})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_temperature", apiErr.Code)
}

func TestCreateTranscription_GeneratedFilename(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(header.Filename, ".mp3"))
		writeJSON(t, w, http.StatusOK, `{"text": "ok"}`)
	})

	_, err := client.CreateTranscription(context.Background(), AudioRequest{
		File: strings.NewReader("audio-bytes"),
	})
	require.NoError(t, err)
}
