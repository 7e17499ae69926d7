package dispatcher

import (
	"errors"

	"github.com/sungwon/paubox-connector/internal/params"
)

// ErrEmptyContent is the message of the ValidationError raised when a send
// item ends up without any content body.
const ErrEmptyContent = "Either text or HTML content must be provided"

// ValidationError reports an item whose parameters are well-formed but
// violate a business rule.
type ValidationError struct {
	ItemIndex int
	Message   string
}

func (e *ValidationError) Error() string { return e.Message }

// ParameterError reports a required parameter that is absent or has the
// wrong type.
type ParameterError struct {
	ItemIndex int
	Name      string
	Err       error
}

func (e *ParameterError) Error() string { return e.Err.Error() }

func (e *ParameterError) Unwrap() error { return e.Err }

// TransportError reports a network failure or a non-2xx API answer. Err
// is a *paubox.APIError when the API responded.
type TransportError struct {
	ItemIndex int
	Err       error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// ItemIndex returns the index of the input item that err belongs to.
func ItemIndex(err error) (int, bool) {
	var (
		ve *ValidationError
		pe *ParameterError
		te *TransportError
	)
	switch {
	case errors.As(err, &ve):
		return ve.ItemIndex, true
	case errors.As(err, &pe):
		return pe.ItemIndex, true
	case errors.As(err, &te):
		return te.ItemIndex, true
	}
	return 0, false
}

// attachIndex classifies err and tags it with the item index.
func attachIndex(index int, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		ve.ItemIndex = index
		return ve
	}
	var pe *params.Error
	if errors.As(err, &pe) {
		return &ParameterError{ItemIndex: index, Name: pe.Name, Err: pe}
	}
	return &TransportError{ItemIndex: index, Err: err}
}
