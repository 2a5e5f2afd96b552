package mem

import "fmt"

// Words implements a flat, fixed capacity, word addressed memory.
// Every address in [0, Size()) is backed; any other address is an error.
type Words struct {
	cells []uint16
}

// LimitError indicates that a memory operation, like load or store, fell
// outside of the allocated memory.
type LimitError struct {
	Addr uint
	Op   string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded by %v @%v", lim.Op, lim.Addr)
}

// Alloc (re)allocates size zeroed words, discarding any prior contents.
func (m *Words) Alloc(size uint) {
	m.cells = make([]uint16, size)
}

// Release drops the backing memory; any later access is a LimitError.
func (m *Words) Release() {
	m.cells = nil
}

// Size returns the capacity of the memory in words.
func (m *Words) Size() uint {
	return uint(len(m.cells))
}

// Load returns a single value from the given address.
func (m *Words) Load(addr uint) (uint16, error) {
	if addr >= uint(len(m.cells)) {
		return 0, LimitError{addr, "load"}
	}
	return m.cells[addr], nil
}

// LoadInto reads len(buf) words from memory starting at addr.
// Returns an error if any part of the range is out of bounds; no partial load
// is done.
func (m *Words) LoadInto(addr uint, buf []uint16) error {
	if len(buf) == 0 {
		return nil
	}
	if err := m.checkRange(addr, len(buf), "load"); err != nil {
		return err
	}
	copy(buf, m.cells[addr:])
	return nil
}

// Stor stores any values at addr.
// Returns an error if any part of the range is out of bounds; no partial
// store is done.
func (m *Words) Stor(addr uint, values ...uint16) error {
	if len(values) == 0 {
		return nil
	}
	if err := m.checkRange(addr, len(values), "stor"); err != nil {
		return err
	}
	copy(m.cells[addr:], values)
	return nil
}

// Zero clears all words in [addr, end), clamped to the memory size.
func (m *Words) Zero(addr, end uint) {
	if end > uint(len(m.cells)) {
		end = uint(len(m.cells))
	}
	for ; addr < end; addr++ {
		m.cells[addr] = 0
	}
}

func (m *Words) checkRange(addr uint, n int, op string) error {
	size := uint(len(m.cells))
	if addr >= size {
		return LimitError{addr, op}
	}
	if end := addr + uint(n); end > size {
		return LimitError{end - 1, op}
	}
	return nil
}
