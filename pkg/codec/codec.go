package codec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Codec turns values into bytes and back.
type Codec interface {
	// Name is a short identifier such as "xml" or "binary".
	Name() string
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into v, which must be a non-nil pointer.
	Unmarshal(data []byte, v any) error
}

// ByName returns the built-in codec registered under name.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "xml", "":
		return XML(), nil
	case "binary", "bson":
		return Binary(), nil
	case "yaml", "yml":
		return YAML(), nil
	case "json":
		return JSON(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

func checkMarshal(v any) error {
	if v == nil {
		return ErrNilValue
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ErrNilValue
	}
	return nil
}

func checkTarget(v any) error {
	rv := reflect.ValueOf(v)
	if v == nil || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotPointer
	}
	return nil
}

func marshalError(err error) error {
	return errors.Join(ErrMarshalFailed, err)
}

func unmarshalError(err error) error {
	return errors.Join(ErrUnmarshalFailed, err)
}
