package address

import (
	"encoding/binary"
	"fmt"
	"net"
	"net/netip"
	"strings"
)

// Family selects one of the two address widths. V4 orders strictly
// before V6.
type Family byte

const (
	V4 Family = iota
	V6
)

func (f Family) Bits() int {
	if f == V4 {
		return 32
	}
	return 128
}

func (f Family) String() string {
	if f == V4 {
		return "IPv4"
	}
	return "IPv6"
}

// Using a 128-bit integer to represent both address widths; an IPv4
// address occupies the low 32 bits. Arithmetic is generic over the
// width, which comes from the Family carried alongside.
type Address struct {
	hi, lo uint64
}

// Max returns the all-ones address of the family.
func Max(f Family) Address {
	if f == V4 {
		return Address{0, 0xffffffff}
	}
	return Address{^uint64(0), ^uint64(0)}
}

// HostMask returns the address with ones in the low (Bits - prefixLen)
// bit positions.
func HostMask(f Family, prefixLen int) Address {
	return Max(f).Rsh(prefixLen)
}

func (a Address) Compare(b Address) int {
	switch {
	case a.hi < b.hi:
		return -1
	case a.hi > b.hi:
		return 1
	case a.lo < b.lo:
		return -1
	case a.lo > b.lo:
		return 1
	}
	return 0
}

func (a Address) Odd() bool { return a.lo&1 == 1 }

func (a Address) Or(b Address) Address {
	return Address{a.hi | b.hi, a.lo | b.lo}
}

func (a Address) Add(b Address) Address {
	lo := a.lo + b.lo
	hi := a.hi + b.hi
	if lo < a.lo {
		hi++
	}
	return Address{hi, lo}
}

// Next is a+1. The caller guards against wrapping at the top of the
// address space.
func (a Address) Next() Address {
	if a.lo == ^uint64(0) {
		return Address{a.hi + 1, 0}
	}
	return Address{a.hi, a.lo + 1}
}

// Prev is a-1. The caller guards against wrapping at address zero.
func (a Address) Prev() Address {
	if a.lo == 0 {
		return Address{a.hi - 1, ^uint64(0)}
	}
	return Address{a.hi, a.lo - 1}
}

// Rsh shifts right by n bits; shifts of 128 or more yield zero rather
// than trapping, so a zero prefix length needs no special casing.
func (a Address) Rsh(n int) Address {
	switch {
	case n >= 128:
		return Address{}
	case n >= 64:
		return Address{0, a.hi >> (n - 64)}
	case n > 0:
		return Address{a.hi >> n, a.lo>>n | a.hi<<(64-n)}
	}
	return a
}

// Lsh shifts left by n bits, with the same clamping as Rsh.
func (a Address) Lsh(n int) Address {
	switch {
	case n >= 128:
		return Address{}
	case n >= 64:
		return Address{a.lo << (n - 64), 0}
	case n > 0:
		return Address{a.hi<<n | a.lo>>(64-n), a.lo << n}
	}
	return a
}

// ParseIP parses a textual IPv4 or IPv6 address. The family is decided
// by the text: anything containing a colon is IPv6, so a v4-mapped form
// like ::ffff:10.0.0.1 stays in the IPv6 space.
func ParseIP(s string) (Family, Address, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return 0, Address{}, &net.ParseError{Type: "IP address", Text: s}
	}
	if strings.Contains(s, ":") {
		return V6, FromIP16(ip), nil
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return 0, Address{}, &net.ParseError{Type: "IPv4 address", Text: s}
	}
	return V4, FromIP4(ip4), nil
}

// FromIP4 converts an ipv4 address to our integer address type
func FromIP4(ip4 net.IP) (r Address) {
	for _, b := range ip4.To4() {
		r.lo <<= 8
		r.lo |= uint64(b)
	}
	return
}

// FromIP16 converts an ipv6 address to our integer address type
func FromIP16(ip net.IP) (r Address) {
	b := ip.To16()
	r.hi = binary.BigEndian.Uint64(b[:8])
	r.lo = binary.BigEndian.Uint64(b[8:])
	return
}

// text renders the address in the family's canonical form. IPv6 goes
// through netip so that a v4-mapped address keeps its ::ffff: prefix;
// net.IP.String would collapse it to a dotted quad and the text would
// re-parse as IPv4.
func (a Address) text(f Family) string {
	if f == V4 {
		return a.IP(V4).String()
	}
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], a.hi)
	binary.BigEndian.PutUint64(b[8:], a.lo)
	return netip.AddrFrom16(b).String()
}

// IP converts our integer address type back to a net.IP
func (a Address) IP(f Family) net.IP {
	if f == V4 {
		r := make(net.IP, net.IPv4len)
		v := a.lo
		for i := 3; i >= 0; i-- {
			r[i] = byte(v)
			v >>= 8
		}
		return r
	}
	r := make(net.IP, net.IPv6len)
	binary.BigEndian.PutUint64(r[:8], a.hi)
	binary.BigEndian.PutUint64(r[8:], a.lo)
	return r
}

// RangeError reports a prefix length outside the family's valid range.
type RangeError struct {
	Family    Family
	PrefixLen int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("prefix length /%d out of range for %s", e.PrefixLen, e.Family)
}
