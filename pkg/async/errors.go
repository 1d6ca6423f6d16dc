package async

import "errors"

var (
	ErrTimeout = errors.New("async: stopped waiting for future completion")
	ErrPanic   = errors.New("async: function panicked")
)
