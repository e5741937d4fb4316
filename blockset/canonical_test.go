package blockset

import (
	"fmt"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestCanonicalizeSiblings(t *testing.T) {
	for _, mergeAdjacent := range []bool{true, false} {
		s := mkSet("1.1.1.0/25", "1.1.1.128/25")
		s.Canonicalize(mergeAdjacent)
		require.Equal(t, []string{"1.1.1.0/24"}, blockStrings(s))

		// Merging cascades: the two /25s collapse to a /24 which then
		// pairs up with its own sibling.
		s = mkSet("10.0.0.0/25", "10.0.0.128/25", "10.0.1.0/24")
		s.Canonicalize(mergeAdjacent)
		require.Equal(t, []string{"10.0.0.0/23"}, blockStrings(s))

		// Adjacent blocks under different parents stay apart.
		s = mkSet("10.0.1.0/24", "10.0.2.0/24")
		s.Canonicalize(mergeAdjacent)
		require.Equal(t, []string{"10.0.1.0/24", "10.0.2.0/24"}, blockStrings(s))
	}
}

func TestCanonicalizeRedundant(t *testing.T) {
	s := mkSet("10.0.0.0/8", "10.1.2.3")
	s.Canonicalize(true)
	require.Equal(t, []string{"10.0.0.0/8"}, blockStrings(s))

	s = mkSet("10.0.0.0/8", "10.0.0.0/16", "10.0.0.0/24")
	s.Canonicalize(true)
	require.Equal(t, []string{"10.0.0.0/8"}, blockStrings(s))

	// A full-space block absorbs its own family only.
	s = mkSet("0.0.0.0/0", "10.0.0.0/8", "2001:db8::/32", "::1")
	s.Canonicalize(true)
	require.Equal(t, []string{"0.0.0.0/0", "::1/128", "2001:db8::/32"}, blockStrings(s))

	s = New()
	s.Canonicalize(true)
	require.Equal(t, 0, s.Len())
}

func TestCanonicalizeRedundantBetweenSiblings(t *testing.T) {
	// The redundant /25 sorts between the two /24 siblings; dropping it
	// must not keep the pair from merging in a single pass.
	for _, mergeAdjacent := range []bool{true, false} {
		s := mkSet("10.0.0.0/24", "10.0.0.128/25", "10.0.1.0/24")
		s.Canonicalize(mergeAdjacent)
		require.Equal(t, []string{"10.0.0.0/23"}, blockStrings(s))
	}
}

func TestCanonicalizeTagAware(t *testing.T) {
	// Equal tags merge as siblings.
	s := New()
	s.Insert(allowed("10.0.0.0/24"))
	s.Insert(allowed("10.0.1.0/24"))
	s.Canonicalize(false)
	require.Equal(t, []Block{allowed("10.0.0.0/23")}, s.Blocks())

	// Mixed tags never merge, whatever the mode.
	for _, mergeAdjacent := range []bool{true, false} {
		s = New()
		s.Insert(base("10.0.0.0/24"))
		s.Insert(allowed("10.0.1.0/24"))
		s.Canonicalize(mergeAdjacent)
		require.Equal(t, []Block{base("10.0.0.0/24"), allowed("10.0.1.0/24")}, s.Blocks())
	}
}

func TestCanonicalizeContainedTags(t *testing.T) {
	// Without mergeAdjacent, a base block inside an allowed cover is
	// validated and kept; any other contained block is dropped.
	s := New()
	s.Insert(allowed("10.0.0.0/16"))
	s.Insert(base("10.0.1.0/24"))
	s.Canonicalize(false)
	require.Equal(t, []Block{allowed("10.0.0.0/16"), base("10.0.1.0/24")}, s.Blocks())

	s = New()
	s.Insert(base("10.0.0.0/16"))
	s.Insert(allowed("10.0.1.0/24"))
	s.Canonicalize(false)
	require.Equal(t, []Block{base("10.0.0.0/16")}, s.Blocks())

	// With mergeAdjacent, a base block inside an allowed cover is
	// absorbed and the cover becomes base itself.
	s = New()
	s.Insert(allowed("10.0.0.0/16"))
	s.Insert(base("10.0.1.0/24"))
	s.Canonicalize(true)
	require.Equal(t, []Block{base("10.0.0.0/16")}, s.Blocks())

	// An allowed cover with no base inside stays allowed.
	s = New()
	s.Insert(allowed("9.0.0.0/8"))
	s.Canonicalize(true)
	require.Equal(t, []Block{allowed("9.0.0.0/8")}, s.Blocks())
}

// isCanonical checks the ordering invariant plus minimality: no block
// contains or could merge with its successor. In a sorted set that
// rules out any containment or sibling pair at a distance too.
func isCanonical(s *Set) bool {
	bs := s.Blocks()
	for i := 1; i < len(bs); i++ {
		if bs[i-1].Compare(bs[i].CIDR) >= 0 ||
			bs[i-1].Contains(bs[i].CIDR) ||
			(bs[i-1].Tag == bs[i].Tag && bs[i-1].SiblingOf(bs[i].CIDR)) {
			return false
		}
	}
	return true
}

func TestCanonicalizeIdempotent(t *testing.T) {
	prop := func(vals []uint32) bool {
		for _, mergeAdjacent := range []bool{true, false} {
			s := New()
			for _, v := range vals {
				line := fmt.Sprintf("%d.%d.%d.%d/%d", byte(v>>24), byte(v>>16), byte(v>>8), byte(v), v%33)
				if err := s.AddLine(line, ",", TagBase); err != nil {
					return false
				}
			}
			s.Canonicalize(mergeAdjacent)
			if !isCanonical(s) {
				return false
			}
			once := blockStrings(s)
			s.Canonicalize(mergeAdjacent)
			if !reflect.DeepEqual(once, blockStrings(s)) {
				return false
			}
		}
		return true
	}
	require.NoError(t, quick.Check(prop, &quick.Config{MaxCount: 10000}))
}
