//go:build windows

package memregion

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

func queryRegion(addr uintptr) (RegionInfo, error) {
	var info windows.MemoryBasicInformation
	err := windows.VirtualQuery(addr, &info, unsafe.Sizeof(info))
	if err != nil {
		return RegionInfo{}, fmt.Errorf("memregion: VirtualQuery %#x: %w", addr, err)
	}
	if info.State == windows.MEM_FREE {
		return RegionInfo{}, ErrFreeMemory
	}
	return RegionInfo{Lower: info.BaseAddress, Upper: info.BaseAddress + uintptr(info.RegionSize)}, nil
}
