//go:build !windows

package main

// enableVT is a no-op; Unix terminals already interpret ANSI sequences.
func enableVT() {}
