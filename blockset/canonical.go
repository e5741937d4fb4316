package blockset

import (
	"github.com/netsum/cidrfold/common"
)

// Canonicalize reduces the set to minimal non-overlapping form: blocks
// contained in an earlier block go away, and sibling pairs collapse
// into their parent, cascading. mergeAdjacent lets the containment pass
// absorb blocks across tags; sibling merging always requires equal
// tags.
//
// Tag rules for the exclusion merge: a TagAllowed cover is authoritative
// for coverage, so a TagBase block inside it is either absorbed into the
// cover, which then becomes TagBase itself (mergeAdjacent), or kept
// as-is (not mergeAdjacent). All other contained blocks are redundant.
func (s *Set) Canonicalize(mergeAdjacent bool) {
	if len(s.blocks) == 0 {
		return
	}
	var (
		acc       []Block
		cover     Block
		haveCover bool
		dropped   int
	)
	for _, b := range s.blocks {
		if haveCover && cover.Contains(b.CIDR) {
			switch {
			case mergeAdjacent:
				if b.Tag == TagBase && acc[len(acc)-1].Tag == TagAllowed {
					acc[len(acc)-1].Tag = TagBase
				}
				dropped++
			case cover.Tag == TagAllowed && b.Tag == TagBase:
				acc = merge(acc, b)
			default:
				dropped++
			}
			continue
		}
		cover, haveCover = b, true
		acc = merge(acc, b)
	}
	if dropped > 0 {
		common.Log.Debugf("canonicalize: dropped %d redundant blocks", dropped)
	}

	// A validated base block can have merged up to the same key as its
	// allowed cover; the base copy wins.
	out := make([]Block, 0, len(acc))
	for _, b := range acc {
		if n := len(out); n > 0 && out[n-1].CIDR == b.CIDR {
			if b.Tag == TagBase {
				out[n-1] = b
			}
			continue
		}
		out = append(out, b)
	}
	s.blocks = out
}

// merge folds b into the accumulator: while the tail is b's even-half
// sibling with the same tag, the pair collapses into its parent and the
// comparison repeats against the new tail.
func merge(acc []Block, b Block) []Block {
	for len(acc) > 0 {
		tail := acc[len(acc)-1]
		if tail.Tag != b.Tag || !tail.SiblingOf(b.CIDR) {
			break
		}
		acc = acc[:len(acc)-1]
		b = Block{CIDR: b.Parent(), Tag: b.Tag}
	}
	return append(acc, b)
}
