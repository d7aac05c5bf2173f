//go:build linux

package memregion

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// queryRegion answers the virtual-region query primitive by scanning
// /proc/self/maps, which the kernel keeps sorted in ascending address
// order. A region whose upper bound passes addr without containing it
// means addr lies in a gap between two mappings, i.e. free memory.
func queryRegion(addr uintptr) (RegionInfo, error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return RegionInfo{}, fmt.Errorf("memregion: open /proc/self/maps: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		dash := strings.IndexByte(line, '-')
		space := strings.IndexByte(line, ' ')
		if dash < 0 || space < 0 || space < dash {
			continue
		}
		lo, errLo := strconv.ParseUint(line[:dash], 16, 64)
		hi, errHi := strconv.ParseUint(line[dash+1:space], 16, 64)
		if errLo != nil || errHi != nil {
			continue
		}
		lower, upper := uintptr(lo), uintptr(hi)
		if addr < lower {
			// Maps are sorted; no later line can contain addr either.
			break
		}
		if addr < upper {
			return RegionInfo{Lower: lower, Upper: upper}, nil
		}
	}
	if err := sc.Err(); err != nil {
		return RegionInfo{}, fmt.Errorf("memregion: scan /proc/self/maps: %w", err)
	}
	return RegionInfo{}, ErrFreeMemory
}
