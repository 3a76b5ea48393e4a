//go:build windows

package secure

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func mlock(p []byte) bool {
	if len(p) == 0 {
		return false
	}
	return windows.VirtualLock(uintptr(unsafe.Pointer(&p[0])), uintptr(len(p))) == nil
}

func munlock(p []byte) {
	if len(p) > 0 {
		_ = windows.VirtualUnlock(uintptr(unsafe.Pointer(&p[0])), uintptr(len(p)))
	}
}
