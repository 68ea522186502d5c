package tdv

import "errors"

var (
	// ErrNotFound reports a term, sense or id absent from the lexicon.
	// Vector-building functions swallow it and return an empty vector.
	ErrNotFound = errors.New("not found")

	// ErrMalformedSource reports a dictionary or snapshot that fails to
	// decode. It is fatal at load time.
	ErrMalformedSource = errors.New("malformed source")

	// ErrIndexOutOfRange reports an explicit sense index beyond the senses
	// available for a term and part of speech.
	ErrIndexOutOfRange = errors.New("sense index out of range")
)
