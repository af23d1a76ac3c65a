package vm

// segment is a fixed-length array of words. Length is set once, at map
// time, and does not change until the segment is unmapped and remapped.
type segment struct {
	words []uint32
}

func newSegment(size uint32) *segment {
	return &segment{words: make([]uint32, size)}
}

// Memory is the segmented main store. Segment 0 is the program segment and
// is mapped for the entire lifetime of the machine. Live segments are held
// in a dense, dynamically-growing table indexed by identifier; freed
// identifiers are pushed onto a LIFO stack and handed back out before any
// fresh identifier is allocated, so repeated map/unmap cycles do not grow
// the table without bound.
//
// Per spec.md's Design Notes, this intentionally replaces the two
// divergent memory layouts seen in the original implementation (one over a
// generic sequence library, one over fixed 100-million-entry
// preallocations) with a single canonical, dynamically-sized table.
type Memory struct {
	segments []*segment // nil entry means unmapped (tombstone) or never allocated
	freeIDs  []uint32   // LIFO pool of reusable identifiers
}

// NewMemory returns an empty Memory with no segments mapped. Callers are
// expected to map segment 0 themselves (see Load in loader.go), matching
// spec.md's lifecycle: Memory is created empty, then the loader maps
// segment 0.
func NewMemory() *Memory {
	return &Memory{}
}

// Map allocates a new zero-filled segment of size words and returns its
// identifier. A freed identifier is reused if one is available; only when
// the free pool is empty is a fresh identifier allocated.
func (m *Memory) Map(size uint32) uint32 {
	seg := newSegment(size)

	if n := len(m.freeIDs); n > 0 {
		id := m.freeIDs[n-1]
		m.freeIDs = m.freeIDs[:n-1]
		m.segments[id] = seg
		return id
	}

	id := uint32(len(m.segments))
	m.segments = append(m.segments, seg)
	return id
}

// Unmap releases the segment named by id and returns id to the free pool.
// Unmapping segment 0 or an id that is not currently mapped is a fatal
// MemoryFault.
func (m *Memory) Unmap(id uint32) error {
	if id == 0 {
		return ErrMemory
	}
	if !m.isMapped(id) {
		return ErrMemory
	}

	m.segments[id] = nil
	m.freeIDs = append(m.freeIDs, id)
	return nil
}

// Load returns the word at offset within the segment named by id.
func (m *Memory) Load(id, offset uint32) (uint32, error) {
	seg, err := m.segmentAt(id)
	if err != nil {
		return 0, err
	}
	if offset >= uint32(len(seg.words)) {
		return 0, ErrMemory
	}
	return seg.words[offset], nil
}

// Store writes word at offset within the segment named by id.
func (m *Memory) Store(id, offset, word uint32) error {
	seg, err := m.segmentAt(id)
	if err != nil {
		return err
	}
	if offset >= uint32(len(seg.words)) {
		return ErrMemory
	}
	seg.words[offset] = word
	return nil
}

// LoadProgram replaces segment 0 with a deep copy of the segment named by
// id. id itself remains mapped and unchanged. If id is 0 this is a no-op on
// storage — the caller (the engine) still has to repoint the program
// counter, which is outside Memory's concern per spec.md §4.3.
func (m *Memory) LoadProgram(id uint32) error {
	if id == 0 {
		return nil
	}

	src, err := m.segmentAt(id)
	if err != nil {
		return err
	}

	cp := make([]uint32, len(src.words))
	copy(cp, src.words)
	m.segments[0] = &segment{words: cp}
	return nil
}

// Free releases every live segment and the free pool. Called on halt.
func (m *Memory) Free() {
	m.segments = nil
	m.freeIDs = nil
}

// SegmentLen reports the length, in words, of the segment named by id.
func (m *Memory) SegmentLen(id uint32) (int, error) {
	seg, err := m.segmentAt(id)
	if err != nil {
		return 0, err
	}
	return len(seg.words), nil
}

func (m *Memory) isMapped(id uint32) bool {
	return id < uint32(len(m.segments)) && m.segments[id] != nil
}

func (m *Memory) segmentAt(id uint32) (*segment, error) {
	if !m.isMapped(id) {
		return nil, ErrMemory
	}
	return m.segments[id], nil
}
