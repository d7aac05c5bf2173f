//go:build unix

package memregion

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

func protBits(p Protection) int {
	var prot int
	if p&Read != 0 {
		prot |= unix.PROT_READ
	}
	if p&Write != 0 {
		prot |= unix.PROT_WRITE
	}
	if p&Exec != 0 {
		prot |= unix.PROT_EXEC
	}
	return prot
}

func mapAnon(size int, prot Protection) (uintptr, []byte, error) {
	data, err := unix.Mmap(-1, 0, size, protBits(prot), unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return 0, nil, fmt.Errorf("memregion: mmap %d bytes: %w", size, err)
	}
	return uintptr(unsafe.Pointer(&data[0])), data, nil
}

func unmap(base uintptr, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("memregion: munmap %#x (%d bytes): %w", base, len(data), err)
	}
	return nil
}
