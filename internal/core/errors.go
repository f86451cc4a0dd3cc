package core

import (
	"errors"
	"fmt"
)

// Boundary and storage sentinels.
var (
	ErrUnknownMode        = errors.New("unknown run mode")
	ErrUnknownGrowthMode  = errors.New("unknown growth mode")
	ErrUnknownStrategy    = errors.New("unknown transform strategy")
	ErrOperatorNotFound   = errors.New("operator record not found")
	ErrOperatorIDRange    = errors.New("operator id outside [1, mode_count]")
	ErrRecordCorrupt      = errors.New("record corrupt")
	ErrRatioMismatch      = errors.New("ratio_constant deviates from phi beyond tolerance")
	ErrModeCountInvalid   = errors.New("mode_count must be positive")
	ErrGrowthParamInvalid = errors.New("growth_params values must be positive")
)

// RecordError carries the operation and file path for a persistence
// failure. Corrupt-record errors wrap ErrRecordCorrupt so scanners can
// classify them with errors.Is and skip rather than abort.
type RecordError struct {
	Op    string // "read", "write", "decode", "encode"
	Path  string
	Cause error
}

func (e *RecordError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("record %s failed at %s: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("record %s failed at %s", e.Op, e.Path)
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}

// NewRecordError wraps cause with operation and path context.
func NewRecordError(op, path string, cause error) error {
	return &RecordError{Op: op, Path: path, Cause: cause}
}

// NewCorruptError marks a file as unparseable. errors.Is(err,
// ErrRecordCorrupt) holds for the result.
func NewCorruptError(path string, cause error) error {
	return &RecordError{Op: "decode", Path: path, Cause: fmt.Errorf("%w: %v", ErrRecordCorrupt, cause)}
}
