package address

// Fixture constructors for tests; they panic on malformed input so a
// broken constant fails loudly.

func ip(s string) Address {
	_, a, err := ParseIP(s)
	if err != nil {
		panic(err)
	}
	return a
}

func cidr(s string) CIDR {
	c, err := ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return c
}

func cidrStrings(cidrs []CIDR) []string {
	ss := make([]string, len(cidrs))
	for i, c := range cidrs {
		ss[i] = c.String()
	}
	return ss
}
