package proxalloc

// Stats is a point-in-time snapshot of an allocator's pool bookkeeping.
// It replaces the Rust original's ad hoc debug-print of its registry with
// a value callers can assert on or export to a metrics sink.
type Stats struct {
	// PoolCount is the number of entries currently in the registry,
	// including any stale ones not yet pruned by a subsequent allocation.
	PoolCount int
	// PoolsCreated is the number of OS mappings reserved over the
	// allocator's lifetime.
	PoolsCreated uint64
	// PoolsReclaimed is the number of registry entries pruned after their
	// pool was observed to have no live suballocations left.
	PoolsReclaimed uint64
	// BytesMapped is the cumulative size, in bytes, of every pool ever
	// reserved (not the live total — pools are never double-counted but
	// are also never subtracted out on reclaim).
	BytesMapped uint64
}
