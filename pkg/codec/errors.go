package codec

import "errors"

var (
	ErrNilValue        = errors.New("codec: nil value")
	ErrNotPointer      = errors.New("codec: decode target must be a non-nil pointer")
	ErrMarshalFailed   = errors.New("codec: marshal failed")
	ErrUnmarshalFailed = errors.New("codec: unmarshal failed")
	ErrUnknownCodec    = errors.New("codec: unknown codec")
)
