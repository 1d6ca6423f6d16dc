// Package cache provides a small, generic, thread-safe LRU cache.
//
// The object store keeps one to remember the folder computed for each
// reflect.Type, which saves the reflection and sanitizing work on every call.
//
// # Usage
//
//	folders, err := cache.NewLRU[reflect.Type, string](256)
//	if err != nil {
//	    return err
//	}
//	folder, err := folders.GetOrCompute(t, typeFolder)
//
// # Error Handling
//
// NewLRU returns ErrInvalidCapacity for a non-positive capacity. GetOrCompute
// returns the compute error unchanged and does not cache it.
package cache
