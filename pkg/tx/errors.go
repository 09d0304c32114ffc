package tx

import "github.com/pkg/errors"

var (
	ErrUnknownType     = errors.New("unknown tx type")
	ErrMissingPayload  = errors.New("tx asset payload missing")
	ErrPayloadMismatch = errors.New("tx asset payload does not match tx type")
	ErrInvalid         = errors.New("tx is invalid")
	ErrBadSignature    = errors.New("tx signature does not verify")
)
