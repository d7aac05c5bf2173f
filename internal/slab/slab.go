// Package slab implements the byte-granular suballocator spec component C5
// treats as an external collaborator: given one owned mutable byte slab,
// hand out non-overlapping sub-ranges, and coalesce them back into a free
// list on release. No published Go library fills this exact role, so this
// is a small first-fit free-list allocator in the vein of the buddy/region
// allocators elsewhere in the retrieval pack (free blocks linked by offset
// and size, coalesced on release), simplified to first-fit since the slab's
// caller (the pool) only ever asks for one size at a time and has no
// fragmentation-policy requirements of its own.
package slab

import "sync"

type freeBlock struct {
	offset, size int
}

// Slab hands out disjoint sub-ranges of a single backing byte slice.
// Thread-safe: every operation holds mu for its duration.
type Slab struct {
	mu   sync.Mutex
	data []byte
	free []freeBlock // sorted ascending by offset, no two entries adjacent
}

// New wraps data as an empty slab: the whole range starts free.
func New(data []byte) *Slab {
	return &Slab{
		data: data,
		free: []freeBlock{{offset: 0, size: len(data)}},
	}
}

// Len returns the size of the underlying slab.
func (s *Slab) Len() int { return len(s.data) }

// Bytes exposes the full backing slice.
func (s *Slab) Bytes() []byte { return s.data }

// Alloc reserves the first free block of at least size bytes and returns
// its offset. ok is false if no such block exists.
func (s *Slab) Alloc(size int) (offset int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.free {
		if b.size < size {
			continue
		}
		if b.size == size {
			s.free = append(s.free[:i], s.free[i+1:]...)
		} else {
			s.free[i] = freeBlock{offset: b.offset + size, size: b.size - size}
		}
		return b.offset, true
	}
	return 0, false
}

// Release returns [offset, offset+size) to the free list, coalescing with
// any adjacent free neighbors.
func (s *Slab) Release(offset, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Find insertion point keeping s.free sorted by offset.
	i := 0
	for i < len(s.free) && s.free[i].offset < offset {
		i++
	}

	blk := freeBlock{offset: offset, size: size}

	// Coalesce with the following neighbor.
	if i < len(s.free) && blk.offset+blk.size == s.free[i].offset {
		blk.size += s.free[i].size
		s.free = append(s.free[:i], s.free[i+1:]...)
	}
	// Coalesce with the preceding neighbor.
	if i > 0 && s.free[i-1].offset+s.free[i-1].size == blk.offset {
		s.free[i-1].size += blk.size
		return
	}

	s.free = append(s.free, freeBlock{})
	copy(s.free[i+1:], s.free[i:])
	s.free[i] = blk
}
