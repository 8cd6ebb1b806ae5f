package batch

import (
	"errors"
	"fmt"
)

// Kind classifies batch-level failures.
type Kind int

const (
	// NoRecipients: the recipient list was empty; nothing was rendered.
	NoRecipients Kind = iota
	// NoRenderableFields: the template has no text and no image fields.
	NoRenderableFields
	// EngineInit: the rendering engine could not be set up (for example a
	// background that cannot be fetched or decoded).
	EngineInit
	// AllRenderingFailed: every recipient failed; no archive was produced.
	AllRenderingFailed
	// Packaging: archive serialization failed after rendering succeeded.
	Packaging
)

func (k Kind) String() string {
	switch k {
	case NoRecipients:
		return "NoRecipients"
	case NoRenderableFields:
		return "NoRenderableFields"
	case EngineInit:
		return "EngineInit"
	case AllRenderingFailed:
		return "AllRenderingFailed"
	case Packaging:
		return "Packaging"
	}
	return "Unknown"
}

// BatchError is a batch-level failure: the caller gets this instead of an
// archive, never a silently-empty success.
type BatchError struct {
	Kind Kind
	Err  error // underlying cause, may be nil
}

func (e *BatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("batch: %s: %v", e.Kind, e.Err)
	}
	switch e.Kind {
	case NoRecipients:
		return "batch: no recipients to generate certificates for"
	case NoRenderableFields:
		return "batch: template has no renderable fields"
	case AllRenderingFailed:
		return "batch: no certificates were generated successfully"
	}
	return fmt.Sprintf("batch: %s", e.Kind)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is, or wraps, a BatchError of the given kind.
func IsKind(err error, k Kind) bool {
	var be *BatchError
	return errors.As(err, &be) && be.Kind == k
}
