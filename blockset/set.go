package blockset

import (
	"sort"

	"github.com/netsum/cidrfold/net/address"
)

// Set is an ordered, deduplicated collection of Blocks, keyed by
// family+network+prefix length. The zero value is not usable; call New.
type Set struct {
	blocks []Block
}

func New() *Set {
	return &Set{}
}

// Insert adds b in sorted position. Insertion is idempotent: if a Block
// with the same key is already present it is left alone, tag included,
// and Insert reports false.
func (s *Set) Insert(b Block) bool {
	i := sort.Search(len(s.blocks), func(j int) bool {
		return s.blocks[j].Compare(b.CIDR) >= 0
	})
	if i < len(s.blocks) && s.blocks[i].CIDR == b.CIDR {
		return false
	}
	s.blocks = append(s.blocks, Block{})
	copy(s.blocks[i+1:], s.blocks[i:])
	s.blocks[i] = b
	return true
}

// Blocks returns the underlying ordered slice, which remains owned by
// the set.
func (s *Set) Blocks() []Block {
	return s.blocks
}

func (s *Set) Len() int {
	return len(s.blocks)
}

// Covers reports whether any single block of the set contains c.
func (s *Set) Covers(c address.CIDR) bool {
	for _, b := range s.blocks {
		if b.Contains(c) {
			return true
		}
	}
	return false
}
