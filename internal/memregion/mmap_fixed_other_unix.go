//go:build unix && !linux

package memregion

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mapFixed maps size bytes at exactly addr. Non-Linux Unix has no
// MAP_FIXED_NOREPLACE equivalent, so a plain MAP_FIXED would silently
// clobber an existing mapping. Query first and refuse if the address isn't
// reported free; this narrows but does not eliminate the race against a
// concurrent mapper, which is acceptable because callers only ever reach
// here with an address the free-region scanner just vetted.
func mapFixed(addr uintptr, size int, prot Protection) (uintptr, []byte, error) {
	if _, err := queryRegion(addr); !errors.Is(err, ErrFreeMemory) {
		if err == nil {
			return 0, nil, fmt.Errorf("memregion: mmap fixed %#x: address is mapped", addr)
		}
		return 0, nil, err
	}

	flags := unix.MAP_PRIVATE | unix.MAP_ANON | unix.MAP_FIXED
	got, _, errno := unix.Syscall6(unix.SYS_MMAP, addr, uintptr(size), uintptr(protBits(prot)), uintptr(flags), ^uintptr(0), 0)
	if errno != 0 {
		return 0, nil, fmt.Errorf("memregion: mmap fixed %#x: %w", addr, errno)
	}
	return got, unsafe.Slice((*byte)(unsafe.Pointer(got)), size), nil
}
