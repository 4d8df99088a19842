//go:build unix

package main

import (
	"golang.org/x/sys/unix"
)

func redirectStdIO(path string) error {
	f, err := openLogFile(path)
	if err != nil || f == nil {
		return err
	}
	defer f.Close()

	// Duplicate the file descriptor onto stdout/stderr so panics and all prints
	// (including from other goroutines) end up in the file.
	if err := unix.Dup2(int(f.Fd()), unix.Stdout); err != nil {
		return err
	}
	return unix.Dup2(int(f.Fd()), unix.Stderr)
}
