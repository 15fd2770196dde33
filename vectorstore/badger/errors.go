package badger

import "errors"

var (
	// ErrCorruptRecord indicates a stored value could not be decoded.
	ErrCorruptRecord = errors.New("corrupt vector record")

	// ErrInvalidNamespace indicates a namespace the key layout cannot carry.
	ErrInvalidNamespace = errors.New("namespace must not contain ':'")
)
