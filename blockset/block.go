package blockset

import (
	"github.com/netsum/cidrfold/net/address"
)

// Tag records where a Block came from. Only TagBase blocks are ever
// emitted; TagAllowed exists for the exclusion merge.
type Tag uint8

const (
	// TagBase marks blocks parsed from primary input.
	TagBase Tag = iota
	// TagAllowed marks the complement of an exclusion set. During the
	// merge it is authoritative for which address space survives, but
	// it never appears in output itself.
	TagAllowed
)

// Block is one CIDR block plus its provenance tag. The tag takes no
// part in ordering or equality: two Blocks are the same set member iff
// family, network and prefix length match.
type Block struct {
	address.CIDR
	Tag Tag
}
