package address

import (
	"fmt"
	"sort"
)

// Range is a closed interval of addresses within one family. Both ends
// are inclusive: a half-open upper bound could not express the top of
// the address space.
type Range struct {
	Family      Family
	First, Last Address
}

func (r Range) String() string {
	return fmt.Sprintf("[%s-%s]", r.First.text(r.Family), r.Last.text(r.Family))
}

func (r Range) Contains(a Address) bool {
	return r.First.Compare(a) <= 0 && a.Compare(r.Last) <= 0
}

// CIDRs returns the minimal set of CIDR blocks exactly covering the
// range, in address order. An inverted range yields nothing.
//
// Classic binary decomposition: peel an odd lower bound or even upper
// bound off as a single block at the current level, then halve the
// problem by shifting both bounds right one bit. The working bounds are
// kept in shifted form, so a block's network is the lower bound shifted
// back up to full width.
func (r Range) CIDRs() []CIDR {
	bits := r.Family.Bits()
	from, to := r.First, r.Last
	prefixLen := bits
	var cidrs []CIDR
	emit := func(v Address) {
		cidrs = append(cidrs, CIDR{Family: r.Family, Addr: v.Lsh(bits - prefixLen), PrefixLen: prefixLen})
	}
	for from.Compare(to) <= 0 {
		if from == to {
			emit(from)
			break
		}
		if from.Odd() {
			emit(from)
			from = from.Next()
		}
		if !to.Odd() {
			emit(to)
			to = to.Prev()
		}
		for !from.Odd() && to.Odd() {
			prefixLen--
			from = from.Rsh(1)
			to = to.Rsh(1)
		}
	}
	sort.Slice(cidrs, func(i, j int) bool { return cidrs[i].Compare(cidrs[j]) < 0 })
	return cidrs
}
