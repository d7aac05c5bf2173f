//go:build unix

package memregion

import "golang.org/x/sys/unix"

func pageSize() int {
	return unix.Getpagesize()
}
