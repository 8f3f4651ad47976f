package s3upload

import (
	"errors"
	"fmt"
)

// Stage names the step of the upload protocol that failed
type Stage string

const (
	StageInitialize Stage = "initialize"
	StagePart       Stage = "part"
	StageComplete   Stage = "complete"
	StageFinalize   Stage = "finalize"
)

// ErrInvalidResponse indicates the server answered with an unusable payload
var ErrInvalidResponse = errors.New("invalid upload response")

// Error describes a failed upload step
type Error struct {
	Stage      Stage
	StatusCode int
	Body       []byte
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("s3upload: %s failed with status %d: %s", e.Stage, e.StatusCode, string(e.Body))
	}
	return fmt.Sprintf("s3upload: %s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}
