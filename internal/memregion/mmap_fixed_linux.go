//go:build linux

package memregion

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mapFixed maps size bytes at exactly addr. Linux's MAP_FIXED_NOREPLACE
// (unlike plain MAP_FIXED) refuses rather than clobbers when the range is
// already occupied, which is exactly the "success implies base == p"
// contract spec §6 requires of the FixedAddress option.
func mapFixed(addr uintptr, size int, prot Protection) (uintptr, []byte, error) {
	flags := unix.MAP_PRIVATE | unix.MAP_ANON | unix.MAP_FIXED_NOREPLACE
	got, _, errno := unix.Syscall6(unix.SYS_MMAP, addr, uintptr(size), uintptr(protBits(prot)), uintptr(flags), ^uintptr(0), 0)
	if errno != 0 {
		return 0, nil, fmt.Errorf("memregion: mmap fixed %#x: %w", addr, errno)
	}
	if got != addr {
		// Older kernels silently ignore an unknown flag bit instead of
		// rejecting it; guard against that by unmapping and failing.
		unix.Syscall6(unix.SYS_MUNMAP, got, uintptr(size), 0, 0, 0, 0)
		return 0, nil, fmt.Errorf("memregion: mmap fixed %#x: kernel placed it at %#x", addr, got)
	}
	return got, unsafe.Slice((*byte)(unsafe.Pointer(got)), size), nil
}
