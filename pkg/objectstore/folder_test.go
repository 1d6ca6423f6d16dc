package objectstore_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securestore/pkg/objectstore"
)

type Box[T any] struct {
	Value T
}

func TestTypeFolder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"named type", reflect.TypeFor[Invoice](), invoiceFolder},
		{"pointer is dereferenced", reflect.TypeFor[**Invoice](), invoiceFolder},
		{"builtin", reflect.TypeFor[int](), "int"},
		{"unnamed map", reflect.TypeFor[map[string]int](), "map[string]int"},
		{"unnamed slice of pointers", reflect.TypeFor[[]*Note](), "[]-objectstore_test.Note"},
		{"versioned module path", reflect.TypeFor[secp256k1.PrivateKey](), "secp256k1+PrivateKey"},
		{"generic instantiation", reflect.TypeFor[Box[int]](), "objectstore_test+Box"},
		{"generic with package argument", reflect.TypeFor[Box[Invoice]](), "objectstore_test+Box"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := objectstore.TypeFolder(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
		})
	}
}

func TestTypeFolder_Stable(t *testing.T) {
	t.Parallel()

	a, err := objectstore.TypeFolder(reflect.TypeFor[Invoice]())
	require.NoError(t, err)
	b, err := objectstore.TypeFolder(reflect.TypeOf(&Invoice{}))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTypeFolder_Errors(t *testing.T) {
	t.Parallel()

	_, err := objectstore.TypeFolder(nil)
	assert.ErrorIs(t, err, objectstore.ErrNilType)
	assert.ErrorIs(t, err, objectstore.ErrInvalidArgument)

	long := reflect.StructOf([]reflect.StructField{{
		Name: "A" + strings.Repeat("b", 300),
		Type: reflect.TypeFor[int](),
	}})
	_, err = objectstore.TypeFolder(long)
	assert.ErrorIs(t, err, objectstore.ErrNameTooLong)
}

func TestValidateKey(t *testing.T) {
	t.Parallel()

	valid := []string{"k", "inv-1", "with space", "café", "a.b.c", strings.Repeat("k", 251)}
	for _, k := range valid {
		assert.NoError(t, objectstore.ValidateKey(k), k)
	}

	invalid := []string{"", "a*b", "a?b", "a/b", `a\b`, "a|b", "a<b", "a>b", "a'b", `a"b`}
	for _, k := range invalid {
		err := objectstore.ValidateKey(k)
		assert.ErrorIs(t, err, objectstore.ErrInvalidKey, k)
		assert.ErrorIs(t, err, objectstore.ErrInvalidArgument, k)
	}

	assert.ErrorIs(t, objectstore.ValidateKey(strings.Repeat("k", 252)), objectstore.ErrNameTooLong)
}
