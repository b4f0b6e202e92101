package vector

import "unsafe"

// Compare reports the ordering of a against b: negative if a < b, zero if
// equal, positive if a > b. HandleVector uses it to keep entries sorted.
type Compare func(a, b unsafe.Pointer) int

// HandleVector is a Vector of opaque handles (unsafe.Pointer) kept sorted
// by a caller-supplied Compare function. Ties are broken by insertion
// order: InsertSorted places a new entry after all existing equal
// entries (rightmost position), matching the stable-insert semantics
// documented for the handle container.
type HandleVector struct {
	Vector[unsafe.Pointer]
	less Compare
}

// NewHandleVector constructs a HandleVector ordered by cmp.
func NewHandleVector(cmp Compare) *HandleVector {
	return &HandleVector{less: cmp}
}

// search returns the smallest index i such that cmp(data[i], handle) > 0,
// i.e. the rightmost insertion point for handle among equal entries.
func (h *HandleVector) search(handle unsafe.Pointer) int {
	data := h.Slice()
	lo, hi := 0, len(data)
	for lo < hi {
		mid := (lo + hi) / 2
		if h.less(data[mid], handle) > 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// InsertSorted inserts handle at its sorted position, after any existing
// equal entries, and returns that index.
func (h *HandleVector) InsertSorted(handle unsafe.Pointer) (int, error) {
	idx := h.search(handle)
	if err := h.InsertAt(idx, handle); err != nil {
		return 0, err
	}
	return idx, nil
}

// InsertAt inserts handle at index idx, shifting later entries up. idx
// must be in [0, Len()].
func (h *HandleVector) InsertAt(idx int, handle unsafe.Pointer) error {
	if idx < 0 || idx > h.Len() {
		return ErrOutOfRange
	}
	region, err := h.AppendN(1)
	if err != nil {
		return err
	}
	_ = region
	data := h.Slice()
	copy(data[idx+1:], data[idx:len(data)-1])
	data[idx] = handle
	return nil
}

// MatchSorted performs a binary search for handle using the vector's
// Compare, returning the index of the first matching entry, or
// ErrNoData if no entry in the vector compares equal.
func (h *HandleVector) MatchSorted(handle unsafe.Pointer) (int, error) {
	data := h.Slice()
	lo, hi := 0, len(data)
	for lo < hi {
		mid := (lo + hi) / 2
		c := h.less(data[mid], handle)
		switch {
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid
		default:
			// walk back to the first of a run of equal entries
			for mid > 0 && h.less(data[mid-1], handle) == 0 {
				mid--
			}
			return mid, nil
		}
	}
	return 0, ErrNoData
}

// UpdateSorted removes the handle currently stored at idx and
// re-inserts it at its new sorted position (used when a handle's sort
// key has changed in place). Returns the handle's new index.
func (h *HandleVector) UpdateSorted(idx int) (int, error) {
	ptr, err := h.Get(idx)
	if err != nil {
		return 0, err
	}
	handle := *ptr
	if err := h.Del(idx); err != nil {
		return 0, err
	}
	return h.InsertSorted(handle)
}

// Remove deletes the entry at idx.
func (h *HandleVector) Remove(idx int) error {
	return h.Del(idx)
}

// RemoveAll deletes every entry comparing equal to handle, returning the
// count removed.
func (h *HandleVector) RemoveAll(handle unsafe.Pointer) int {
	data := h.Slice()

	lo, hi := 0, len(data)
	for lo < hi {
		mid := (lo + hi) / 2
		if h.less(data[mid], handle) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	start := lo

	lo, hi = start, len(data)
	for lo < hi {
		mid := (lo + hi) / 2
		if h.less(data[mid], handle) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	end := lo

	if start >= end {
		return 0
	}
	n := end - start
	if err := h.DelRange(start, n); err != nil {
		return 0
	}
	return n
}
