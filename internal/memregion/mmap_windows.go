//go:build windows

package memregion

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

func protBits(p Protection) uint32 {
	switch {
	case p&Exec != 0 && p&Write != 0:
		return windows.PAGE_EXECUTE_READWRITE
	case p&Exec != 0 && p&Read != 0:
		return windows.PAGE_EXECUTE_READ
	case p&Exec != 0:
		return windows.PAGE_EXECUTE
	case p&Write != 0:
		return windows.PAGE_READWRITE
	case p&Read != 0:
		return windows.PAGE_READONLY
	default:
		return windows.PAGE_NOACCESS
	}
}

func mapAnon(size int, prot Protection) (uintptr, []byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, protBits(prot))
	if err != nil {
		return 0, nil, fmt.Errorf("memregion: VirtualAlloc %d bytes: %w", size, err)
	}
	return addr, unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

// mapFixed maps size bytes at exactly addr. VirtualAlloc never relocates a
// MEM_RESERVE request away from the address it's given: it either commits
// at lpAddress or fails with ERROR_INVALID_ADDRESS, which already matches
// the FixedAddress contract without the clobber risk POSIX MAP_FIXED has.
func mapFixed(addr uintptr, size int, prot Protection) (uintptr, []byte, error) {
	got, err := windows.VirtualAlloc(addr, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, protBits(prot))
	if err != nil {
		return 0, nil, fmt.Errorf("memregion: VirtualAlloc fixed %#x: %w", addr, err)
	}
	if got != addr {
		windows.VirtualFree(got, 0, windows.MEM_RELEASE)
		return 0, nil, fmt.Errorf("memregion: VirtualAlloc fixed %#x: got %#x", addr, got)
	}
	return got, unsafe.Slice((*byte)(unsafe.Pointer(got)), size), nil
}

func unmap(base uintptr, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := windows.VirtualFree(base, 0, windows.MEM_RELEASE); err != nil {
		return fmt.Errorf("memregion: VirtualFree %#x: %w", base, err)
	}
	return nil
}
