package db

import "fmt"

// NotFoundError is an error used to encode when an object isn't found
// for lookup, update, and vote operations
type NotFoundError struct {
	Kind string
	ID   string
}

// NewNotFoundError constructs a new NotFoundError
func NewNotFoundError(kind string, id string) *NotFoundError {
	return &NotFoundError{
		Kind: kind,
		ID:   id,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found in the database",
		e.Kind, e.ID)
}

// DuplicateIDError is an error used to encode when duplicate IDs occur
// (used to provide more detailed feedback
// and to use the correct status code)
type DuplicateIDError struct {
	OriginalID string
}

// NewDuplicateIDError constructs a new DuplicateIDError
func NewDuplicateIDError(originalID string) *DuplicateIDError {
	return &DuplicateIDError{
		OriginalID: originalID,
	}
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("given ID '%s' collides with existing IDs in the database",
		e.OriginalID)
}

// InvalidArgumentError is an error used to encode when a request value
// falls outside its allowed domain, detected before any state is touched
type InvalidArgumentError struct {
	Name  string
	Value string
}

// NewInvalidArgumentError constructs a new InvalidArgumentError
func NewInvalidArgumentError(name string, value string) *InvalidArgumentError {
	return &InvalidArgumentError{
		Name:  name,
		Value: value,
	}
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("value '%s' is not valid for the %s",
		e.Value, e.Name)
}

// InconsistentUpdateError is an error used to encode when the second
// half of the two-document vote update failed after the first half was
// already persisted, leaving the user record and the product tally
// out of sync until a later vote repairs them
type InconsistentUpdateError struct {
	Code  string
	Cause error
}

// NewInconsistentUpdateError constructs a new InconsistentUpdateError
func NewInconsistentUpdateError(code string, cause error) *InconsistentUpdateError {
	return &InconsistentUpdateError{
		Code:  code,
		Cause: cause,
	}
}

func (e *InconsistentUpdateError) Error() string {
	return fmt.Sprintf("vote was recorded for the user but the tally update on product '%s' failed: %v",
		e.Code, e.Cause)
}

func (e *InconsistentUpdateError) Unwrap() error {
	return e.Cause
}
