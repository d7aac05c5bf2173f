//go:build unix && !linux

package memregion

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// probePageLimit bounds how far queryRegion walks away from addr while
// looking for the edges of the mapped region it belongs to. Unlike Linux's
// /proc/self/maps, POSIX offers no single call returning a region's bounds;
// Mincore only answers "is this one page resident", so the edges have to be
// found by walking outward until the answer flips.
const probePageLimit = 1 << 16

func mincoreResident(addr uintptr, ps uintptr) (bool, error) {
	page := addr &^ (ps - 1)
	b := unsafe.Slice((*byte)(unsafe.Pointer(page)), int(ps))
	vec := make([]byte, 1)
	if err := unix.Mincore(b, vec); err != nil {
		if errors.Is(err, unix.ENOMEM) {
			return false, nil
		}
		return false, fmt.Errorf("memregion: mincore %#x: %w", addr, err)
	}
	return vec[0]&1 != 0, nil
}

func queryRegion(addr uintptr) (RegionInfo, error) {
	ps := uintptr(pageSize())

	resident, err := mincoreResident(addr, ps)
	if err != nil {
		return RegionInfo{}, err
	}
	if !resident {
		return RegionInfo{}, ErrFreeMemory
	}

	lower := addr &^ (ps - 1)
	upper := lower + ps

	for i := 0; i < probePageLimit && lower >= ps; i++ {
		ok, err := mincoreResident(lower-ps, ps)
		if err != nil || !ok {
			break
		}
		lower -= ps
	}
	for i := 0; i < probePageLimit; i++ {
		ok, err := mincoreResident(upper, ps)
		if err != nil || !ok {
			break
		}
		upper += ps
	}
	return RegionInfo{Lower: lower, Upper: upper}, nil
}
