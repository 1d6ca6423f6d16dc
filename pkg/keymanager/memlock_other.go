//go:build !linux && !darwin

package keymanager

func lockMemory([]byte) error   { return nil }
func unlockMemory([]byte) error { return nil }
