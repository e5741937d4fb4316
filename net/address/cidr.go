package address

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/netsum/cidrfold/common"
)

// CIDR is one block in canonical form: Addr always has its host bits
// (everything beyond PrefixLen) zeroed.
type CIDR struct {
	Family    Family
	Addr      Address
	PrefixLen int
}

// NewCIDR masks addr down to the canonical network address for the
// given prefix length.
func NewCIDR(f Family, addr Address, prefixLen int) CIDR {
	common.Assert(prefixLen >= 0 && prefixLen <= f.Bits())
	n := f.Bits() - prefixLen
	return CIDR{Family: f, Addr: addr.Rsh(n).Lsh(n), PrefixLen: prefixLen}
}

// ParseCIDR parses "address" or "address/prefix". A bare address gets
// the family's full prefix length; the address is masked to its
// canonical network either way.
func ParseCIDR(s string) (CIDR, error) {
	addrText := s
	prefixLen, havePrefix := 0, false
	if i := strings.Index(s, "/"); i >= 0 {
		n, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return CIDR{}, &net.ParseError{Type: "CIDR prefix", Text: s}
		}
		addrText, prefixLen, havePrefix = s[:i], n, true
	}
	f, addr, err := ParseIP(addrText)
	if err != nil {
		return CIDR{}, err
	}
	if !havePrefix {
		prefixLen = f.Bits()
	} else if prefixLen < 0 || prefixLen > f.Bits() {
		return CIDR{}, &RangeError{Family: f, PrefixLen: prefixLen}
	}
	return NewCIDR(f, addr, prefixLen), nil
}

// Compare orders by family, then network address, then prefix length.
func (c CIDR) Compare(d CIDR) int {
	switch {
	case c.Family < d.Family:
		return -1
	case c.Family > d.Family:
		return 1
	}
	if r := c.Addr.Compare(d.Addr); r != 0 {
		return r
	}
	switch {
	case c.PrefixLen < d.PrefixLen:
		return -1
	case c.PrefixLen > d.PrefixLen:
		return 1
	}
	return 0
}

// Contains reports whether d lies entirely inside c. A zero prefix
// length contains everything of its own family, and nothing of the
// other.
func (c CIDR) Contains(d CIDR) bool {
	if c.Family != d.Family || c.PrefixLen > d.PrefixLen {
		return false
	}
	n := c.Family.Bits() - c.PrefixLen
	return c.Addr == d.Addr.Rsh(n).Lsh(n)
}

// SiblingOf reports whether c and d compose the next larger block,
// with c the even (lower) half. Full-space blocks have no sibling.
func (c CIDR) SiblingOf(d CIDR) bool {
	if c.Family != d.Family || c.PrefixLen != d.PrefixLen || c.PrefixLen == 0 {
		return false
	}
	n := c.Family.Bits() - c.PrefixLen
	v := c.Addr.Rsh(n)
	return !v.Odd() && v.Next() == d.Addr.Rsh(n)
}

// Parent is the enclosing block one prefix bit shorter.
func (c CIDR) Parent() CIDR {
	return NewCIDR(c.Family, c.Addr, c.PrefixLen-1)
}

func (c CIDR) Range() Range {
	return Range{Family: c.Family, First: c.Addr, Last: c.Addr.Or(HostMask(c.Family, c.PrefixLen))}
}

// Subdivide expands c into its children at prefixLen, in address order.
// A block already at or past the target length, or a target outside the
// family's range, comes back unchanged.
func (c CIDR) Subdivide(prefixLen int) []CIDR {
	if prefixLen <= c.PrefixLen || prefixLen > c.Family.Bits() {
		return []CIDR{c}
	}
	mask := HostMask(c.Family, prefixLen)
	step := mask.Next()
	last := c.Range().Last
	var cidrs []CIDR
	for addr := c.Addr; ; addr = addr.Add(step) {
		cidrs = append(cidrs, CIDR{Family: c.Family, Addr: addr, PrefixLen: prefixLen})
		if addr.Or(mask) == last {
			break
		}
	}
	return cidrs
}

func (c CIDR) String() string {
	return fmt.Sprintf("%s/%d", c.Addr.text(c.Family), c.PrefixLen)
}
