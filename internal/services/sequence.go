package services

import "sync"

// OrderSequence hands out sequential order ids. It is seeded with the highest
// id already in storage and incremented in memory on every allocation. Ids are
// never reused; a failed persist returns its id with Release so that gaps only
// ever come from deletes, not from failed creates.
type OrderSequence struct {
	mu   sync.Mutex
	next int64
}

// NewOrderSequence creates a sequence whose first allocation is lastUsed+1.
func NewOrderSequence(lastUsed int64) *OrderSequence {
	return &OrderSequence{next: lastUsed + 1}
}

// Next allocates the next order id.
func (s *OrderSequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}

// Release rolls back the most recent allocation. Ignored when a later id has
// already been handed out, so the sequence stays strictly increasing.
func (s *OrderSequence) Release(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next == id+1 {
		s.next = id
	}
}

// Peek returns the id the next allocation would produce.
func (s *OrderSequence) Peek() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Reseed resets the sequence after the underlying order set changed outside
// the normal create path (a backup restore).
func (s *OrderSequence) Reseed(lastUsed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = lastUsed + 1
}
