package schedule

// Sequencer numbers requests per fetch kind so that a response resolving
// after a newer one has been applied can be recognized and dropped.
type Sequencer struct {
	issued  map[string]uint64
	applied map[string]uint64
}

// NewSequencer returns an empty sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
	}
}

// Issue returns the sequence number for a new request of kind.
func (s *Sequencer) Issue(kind string) uint64 {
	s.issued[kind]++
	return s.issued[kind]
}

// Accept reports whether a response carrying seq is newer than anything
// already applied for kind, and records it as applied when it is.
func (s *Sequencer) Accept(kind string, seq uint64) bool {
	if seq <= s.applied[kind] {
		return false
	}
	s.applied[kind] = seq
	return true
}

// Latest returns the most recently issued sequence number for kind.
func (s *Sequencer) Latest(kind string) uint64 {
	return s.issued[kind]
}
