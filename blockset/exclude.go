package blockset

import (
	"github.com/netsum/cidrfold/common"
)

// Subtract removes excl's address space from the set; excl is
// canonicalized as a side effect. With collapse, surviving base space
// may be absorbed into the largest blocks the exclusion complement
// allows; without it the original base blocks come through unchanged.
// Afterwards the set holds TagBase blocks only.
//
// The mechanism: the complement of the exclusion set is inserted with
// TagAllowed, making it authoritative for which space survives the
// canonicalization pass. Base blocks wholly inside an excluded region
// have no allowed cover and are dropped up front so they cannot act as
// covers themselves.
func (s *Set) Subtract(excl *Set, collapse bool) {
	excl.Canonicalize(true)

	kept := 0
	for _, b := range s.blocks {
		if excl.Covers(b.CIDR) {
			continue
		}
		s.blocks[kept] = b
		kept++
	}
	if n := len(s.blocks) - kept; n > 0 {
		common.Log.Debugf("subtract: %d blocks wholly excluded", n)
	}
	s.blocks = s.blocks[:kept]

	for _, b := range excl.Gap().Blocks() {
		b.Tag = TagAllowed
		s.Insert(b)
	}
	s.Canonicalize(collapse)

	kept = 0
	for _, b := range s.blocks {
		if b.Tag != TagBase {
			continue
		}
		s.blocks[kept] = b
		kept++
	}
	s.blocks = s.blocks[:kept]
}
