//go:build !windows

package secure

import "golang.org/x/sys/unix"

func mlock(p []byte) bool {
	if len(p) == 0 {
		return false
	}
	return unix.Mlock(p) == nil
}

func munlock(p []byte) {
	if len(p) > 0 {
		_ = unix.Munlock(p)
	}
}
