//go:build windows

package memregion

import "golang.org/x/sys/windows"

func pageSize() int {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	return int(info.PageSize)
}
