package proxalloc

import "proxalloc/internal/addrrange"

// Window is a half-open address interval [Lo, Hi) that a pool's base
// address must lie inside (spec component C1, specialized to uintptr).
type Window = addrrange.Range[uintptr]

// NewWindow builds a Window from explicit bounds.
func NewWindow(lo, hi uintptr) Window {
	return Window{Lo: lo, Hi: hi}
}

// unboundedWindow is the window used by Alloc, which accepts any address.
func unboundedWindow() Window {
	return Window{Lo: 0, Hi: ^uintptr(0)}
}
