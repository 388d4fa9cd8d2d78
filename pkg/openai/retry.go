// Package openai provides retry functionality for chat completions with
// exponential backoff.
//
// Examples:
//
// Basic usage with default configuration (3 retries, 1s base delay, 2x backoff):
//
//	client, _ := openai.New(config)
//	retryClient := openai.RetryChatCompletion(client)
//	resp, err := retryClient.CreateChatCompletion(ctx, request)
//
// Conservative retry for rate-limited keys:
//
//	retryConfig := openai.RetryConfig{
//		MaxRetries:    5,
//		BaseDelay:     2 * time.Second,
//		MaxDelay:      5 * time.Minute,
//		BackoffFactor: 2.5,
//		Jitter:        true,
//	}
//	retryClient := openai.RetryChatCompletion(client, retryConfig)
package openai

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math"
	"time"
)

// secureRandomFloat64 generates a cryptographically secure random float64 between 0 and 1
func secureRandomFloat64() (float64, error) {
	var bytes [8]byte
	_, err := rand.Read(bytes[:])
	if err != nil {
		return 0, err
	}
	// Convert bytes to uint64, then to float64 between 0 and 1
	return float64(binary.BigEndian.Uint64(bytes[:])) / float64(^uint64(0)), nil
}

// ChatCompleter defines an interface for any client that can perform chat
// completions. It is implemented by *Client and by the wrapper returned
// from RetryChatCompletion, so wrappers compose.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (*ChatCompletion, error)
}

// RetryConfig defines configuration options for the retry mechanism
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3).
	// Total requests = MaxRetries + 1 (original attempt).
	MaxRetries int

	// BaseDelay is the initial delay between retries (default: 1 second).
	// Each retry multiplies this by BackoffFactor.
	BaseDelay time.Duration

	// MaxDelay caps the maximum delay between retries (default: 60 seconds).
	MaxDelay time.Duration

	// BackoffFactor multiplies the delay after each retry (default: 2.0).
	BackoffFactor float64

	// Jitter adds randomness to delays to prevent thundering herd
	// (default: true). Multiplies delay by a random factor between 0.5
	// and 1.5.
	Jitter bool

	// RetryOnStatusCodes specifies exact HTTP status codes to retry on.
	// If empty, 429 and all 5xx codes trigger retries.
	RetryOnStatusCodes []int

	// RetryOnErrorTypes specifies exact API error types to retry on. If
	// empty, "rate_limit_error" and "server_error" trigger retries.
	RetryOnErrorTypes []string
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		BaseDelay:     1 * time.Second,
		MaxDelay:      60 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// retryableChatCompleter wraps a ChatCompleter with retry functionality
type retryableChatCompleter struct {
	client ChatCompleter
	config RetryConfig
}

// RetryChatCompletion creates a retrying wrapper around any ChatCompleter.
// It retries on throttling (HTTP 429) and temporary server errors (5xx)
// using exponential backoff with optional jitter. Streaming requests are
// never retried; retry the whole request instead.
func RetryChatCompletion(client ChatCompleter, config ...RetryConfig) ChatCompleter {
	cfg := DefaultRetryConfig()
	if len(config) > 0 {
		cfg = config[0]
		// Ensure sane defaults for zero values
		if cfg.MaxRetries <= 0 {
			cfg.MaxRetries = 3
		}
		if cfg.BaseDelay <= 0 {
			cfg.BaseDelay = 1 * time.Second
		}
		if cfg.MaxDelay <= 0 {
			cfg.MaxDelay = 60 * time.Second
		}
		if cfg.BackoffFactor <= 0 {
			cfg.BackoffFactor = 2.0
		}
	}

	return &retryableChatCompleter{client: client, config: cfg}
}

// CreateChatCompletion performs the request, retrying retryable failures
// until MaxRetries is exhausted or the context is done
func (r *retryableChatCompleter) CreateChatCompletion(ctx context.Context, req ChatRequest) (*ChatCompletion, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := r.delayFor(attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := r.client.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !r.isRetryable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// delayFor computes the backoff delay for the given attempt (1-based)
func (r *retryableChatCompleter) delayFor(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay) * math.Pow(r.config.BackoffFactor, float64(attempt-1))
	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}
	if r.config.Jitter {
		if f, err := secureRandomFloat64(); err == nil {
			delay *= 0.5 + f
		}
	}
	return time.Duration(delay)
}

func (r *retryableChatCompleter) isRetryable(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}

	if len(r.config.RetryOnStatusCodes) > 0 {
		for _, code := range r.config.RetryOnStatusCodes {
			if apiErr.StatusCode == code {
				return true
			}
		}
	} else if apiErr.StatusCode == 429 || apiErr.StatusCode >= 500 {
		return true
	}

	if len(r.config.RetryOnErrorTypes) > 0 {
		for _, t := range r.config.RetryOnErrorTypes {
			if apiErr.Type == t {
				return true
			}
		}
	} else if apiErr.Type == "rate_limit_error" || apiErr.Type == "server_error" {
		return true
	}

	return false
}
