package blockset

import (
	"github.com/netsum/cidrfold/net/address"
)

// Gap returns the complement of the set: for each family, the address
// space not covered by any block, as minimal CIDR blocks. The receiver
// must already be canonical. Result blocks carry TagBase.
func (s *Set) Gap() *Set {
	out := New()
	s.gapFamily(address.V4, out)
	s.gapFamily(address.V6, out)
	return out
}

func (s *Set) gapFamily(f address.Family, out *Set) {
	var next address.Address
	max := address.Max(f)
	covered := false
	for _, b := range s.blocks {
		if b.Family != f {
			continue
		}
		if b.Addr.Compare(next) > 0 {
			// b.Addr is above next, so at least 1: the decrement
			// cannot wrap.
			insertCIDRs(out, address.Range{Family: f, First: next, Last: b.Addr.Prev()})
		}
		last := b.Range().Last
		if last == max {
			// Covered through the top of the space; advancing next
			// would wrap.
			covered = true
			break
		}
		if n := last.Next(); n.Compare(next) > 0 {
			next = n
		}
	}
	if !covered {
		insertCIDRs(out, address.Range{Family: f, First: next, Last: max})
	}
}

func insertCIDRs(out *Set, r address.Range) {
	for _, c := range r.CIDRs() {
		out.Insert(Block{CIDR: c})
	}
}
