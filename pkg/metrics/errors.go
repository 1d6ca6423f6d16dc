package metrics

import "errors"

var (
	ErrNilRegisterer      = errors.New("metrics: nil registerer")
	ErrRegistrationFailed = errors.New("metrics: collector registration failed")
)
