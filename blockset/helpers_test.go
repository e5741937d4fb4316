package blockset

import (
	"github.com/netsum/cidrfold/net/address"
)

// Fixture constructors; they panic on malformed input so a broken
// constant fails loudly.

func cidr(s string) address.CIDR {
	c, err := address.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return c
}

func base(s string) Block    { return Block{CIDR: cidr(s)} }
func allowed(s string) Block { return Block{CIDR: cidr(s), Tag: TagAllowed} }

// mkSet parses one line per argument, all tagged TagBase.
func mkSet(lines ...string) *Set {
	s := New()
	for _, line := range lines {
		if err := s.AddLine(line, ",", TagBase); err != nil {
			panic(err)
		}
	}
	return s
}

func blockStrings(s *Set) []string {
	out := make([]string, s.Len())
	for i, b := range s.Blocks() {
		out[i] = b.String()
	}
	return out
}
