package objectstore

import (
	"path"
	"reflect"
	"regexp"
	"strings"
)

const (
	// disallowedChars may not appear in item keys; in type folders they become '-'.
	disallowedChars = `*?/\|<>'"`
	maxNameLength   = 255
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

var sanitizer = strings.NewReplacer(
	"*", "-", "?", "-", "/", "-", `\`, "-",
	"|", "-", "<", "-", ">", "-", "'", "-", `"`, "-",
)

// ValidateKey reports whether key can be used as an object key.
// Keys must be non-empty, free of disallowedChars and short enough to be a file name.
func ValidateKey(key string) error {
	if key == "" || strings.ContainsAny(key, disallowedChars) {
		return ErrInvalidKey
	}
	if len(key)+len(".cry") > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// TypeFolder returns the folder objects of type t are stored in. Pointer types
// share the folder of their element type.
//
// Named types map to "<import path>.<name>". Types from a major-version module
// path (.../v2) and instantiated generic types collapse to
// "<package name>+<name>" so the folder survives version bumps. Unnamed types
// use their Go syntax. Characters from disallowedChars become '-'.
func TypeFolder(t reflect.Type) (string, error) {
	if t == nil {
		return "", ErrNilType
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var name string
	switch {
	case t.Name() == "":
		name = t.String()
	case t.PkgPath() == "":
		name = t.Name()
	case isVersioned(t.PkgPath()) || strings.Contains(t.Name(), "["):
		name = packageName(t) + "+" + simpleName(t)
	default:
		name = t.PkgPath() + "." + t.Name()
	}

	folder := sanitizer.Replace(name)
	if len(folder) > maxNameLength {
		return "", ErrNameTooLong
	}
	return folder, nil
}

func isVersioned(pkgPath string) bool {
	return majorVersion.MatchString(path.Base(pkgPath))
}

// packageName is the declared package name, which reflect only exposes
// through String ("name.Type").
func packageName(t reflect.Type) string {
	s := t.String()
	if i := strings.IndexByte(s, '.'); i > 0 {
		return s[:i]
	}
	return path.Base(t.PkgPath())
}

func simpleName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}
