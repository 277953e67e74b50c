//go:build unix && !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package crossterm

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios  = unix.TCGETS
	ioctlWriteTermios = unix.TCSETS
)
