package domain

import "context"

// Calculator turns raw form input into a priced record.
type Calculator interface {
	Calculate(req CalculateRequest) (Record, error)
}

// Generator prices a request and renders it into a document.
type Generator interface {
	Preview(ctx context.Context, req CalculateRequest) (Record, error)
	Generate(ctx context.Context, req CalculateRequest) (Rendered, error)
}

// Rendered is a finished document, produced fully in memory.
type Rendered struct {
	Record      Record
	Filename    string
	ContentType string
	Body        []byte
}
