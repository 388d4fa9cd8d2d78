// Package openai is a client library for the OpenAI REST API.
//
// It binds the chat, completions, edits, embeddings, moderations, files,
// fine-tunes, images and audio endpoints, and exposes streaming responses
// as pull-based typed streams decoded by pkg/sse.
//
// The main components include:
//
// - Client: request construction, authentication, error envelope decoding
// - Stream: lazy, pull-based consumption of streaming responses
// - Error: standardized error type for API and client-side failures
// - Schema helpers: structured output schemas generated from Go structs
// - RetryChatCompletion: exponential backoff wrapper for chat completions
//
// Create a client from explicit configuration or from the environment:
//
//	client, err := openai.New(openai.Config{APIKey: key})
//	client, err := openai.NewFromEnv()
package openai
