// Package codeseg holds the two append-only memory images pass 1
// builds up one word at a time: the code segment (encoded
// instructions) and the data segment (.data/.string payloads). Both
// are backed by plain slices — the original assembler chains these as
// singly linked lists (original_source/code_list.c, data_list.c), but
// nothing here ever needs mid-list insertion or removal, so a slice
// recreates the same "append, never splice" shape with none of the
// pointer bookkeeping.
package codeseg

import "github.com/neta767/asm24/isa"

// Cell is one machine word sitting at a given address in its segment.
type Cell struct {
	Address int
	Value   isa.Word
}

// Store is an append-only sequence of words addressed from a base
// counter that starts at Origin and grows by one per Append.
type Store struct {
	Origin int
	cells  []Cell
}

// NewStore creates a store whose first cell will sit at origin.
func NewStore(origin int) *Store {
	return &Store{Origin: origin}
}

// Append adds value at the next free address and returns that address.
func (s *Store) Append(value isa.Word) int {
	addr := s.Origin + len(s.cells)
	s.cells = append(s.cells, Cell{Address: addr, Value: value})
	return addr
}

// Len reports how many words have been appended.
func (s *Store) Len() int {
	return len(s.cells)
}

// Next reports the address the next Append will land on, i.e. the
// running instruction/data counter.
func (s *Store) Next() int {
	return s.Origin + len(s.cells)
}

// Set overwrites the word at address addr, which must already have
// been produced by an earlier Append. Used by pass 2 to patch in a
// resolved operand after the label table is complete.
func (s *Store) Set(addr int, value isa.Word) {
	s.cells[addr-s.Origin].Value = value
}

// At returns the word currently stored at addr.
func (s *Store) At(addr int) isa.Word {
	return s.cells[addr-s.Origin].Value
}

// Rebase shifts every cell's address by delta, and resets Origin to
// match. Used to slide the data segment to sit right after the final
// code segment (spec.md §4.2 "After scanning").
func (s *Store) Rebase(delta int) {
	s.Origin += delta
	for i := range s.cells {
		s.cells[i].Address += delta
	}
}

// Cells returns every cell in address order.
func (s *Store) Cells() []Cell {
	return s.cells
}
