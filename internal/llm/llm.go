package llm

import (
	"context"
	"errors"
)

// Client abstracts the local inference backend.
type Client interface {
	// Generate runs a single prompt to completion and returns the reply text.
	Generate(ctx context.Context, input GenerateInput) (string, error)
	// ListModels returns the models the backend currently serves.
	ListModels(ctx context.Context) ([]Model, error)
}

// GenerateInput captures one completion request.
type GenerateInput struct {
	Prompt string
	Model  string
}

// Model describes one installed backend model.
type Model struct {
	Name       string `json:"name"`
	Size       int64  `json:"size,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

// Backend failure taxonomy. Handlers map these onto HTTP statuses; none of
// them triggers an automatic retry.
var (
	// ErrTimeout means the backend did not answer within the configured bound.
	ErrTimeout = errors.New("inference backend timed out")
	// ErrConnectionFailed means the backend could not be reached at all.
	ErrConnectionFailed = errors.New("inference backend unreachable")
	// ErrBackend means the backend answered with an explicit error payload.
	ErrBackend = errors.New("inference backend error")
	// ErrMalformedReply means the backend reply body was not valid JSON.
	ErrMalformedReply = errors.New("malformed inference reply")
	// ErrEmptyReply means the reply parsed but carried no usable text.
	ErrEmptyReply = errors.New("empty inference reply")
)
