package listings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrListingNotFound = errors.New("Listing not found")
	ErrSlugExhausted   = errors.New("Could not allocate a unique slug")
	ErrNoAssetGateway  = errors.New("Asset gateway is not configured")
)

// FieldError is one (field, message) pair from a validation pass.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failing field from one validation pass, not
// just the first.
type ValidationError struct {
	Issues []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		parts = append(parts, i.Field+": "+i.Message)
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError returns the *ValidationError inside err, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// RemoteAssetError wraps a failure from the remote image store. It is fatal to
// the enclosing mutation: the local transaction rolls back.
type RemoteAssetError struct {
	PublicID string
	Err      error
}

func (e *RemoteAssetError) Error() string {
	return fmt.Sprintf("Remote asset %q: %v", e.PublicID, e.Err)
}

func (e *RemoteAssetError) Unwrap() error {
	return e.Err
}
