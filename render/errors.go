package render

import (
	"errors"
	"fmt"
)

// Sentinel errors for common rendering failure conditions.
var (
	ErrClosed     = errors.New("render: renderer is closed")
	ErrBadImage   = errors.New("render: malformed image data")
	ErrBadAsset   = errors.New("render: asset could not be fetched")
	ErrBadCanvas  = errors.New("render: invalid canvas dimensions")
	ErrEngineFail = errors.New("render: pdf engine error")
)

// RenderError represents a failure while rendering one certificate. It
// wraps an underlying error and carries the operation and recipient for
// context.
type RenderError struct {
	Op        string // operation name, e.g. "background", "textField"
	Recipient string // recipient name, may be empty
	Err       error  // underlying error
}

func (e *RenderError) Error() string {
	if e.Recipient != "" {
		return fmt.Sprintf("render.%s: recipient %q: %v", e.Op, e.Recipient, e.Err)
	}
	return fmt.Sprintf("render.%s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
