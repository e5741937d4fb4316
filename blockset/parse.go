package blockset

import (
	"bufio"
	"io"
	"net"
	"strings"

	"github.com/pkg/errors"

	"github.com/netsum/cidrfold/common"
	"github.com/netsum/cidrfold/net/address"
)

// AddLine parses one line of input into the set. Whitespace is trimmed
// and everything from the first '#' on is dropped; an empty remainder
// is a no-op. A line containing sep is a range: two address fields
// (fields past the second are ignored) whose canonical networks become
// the inclusive bounds fed to the range splitter. Anything else is a
// single address or address/prefix.
//
// Malformed addresses and out-of-range prefixes come back as
// *net.ParseError / *address.RangeError so callers can skip the line;
// any other error is structural and should stop the run.
func (s *Set) AddLine(line, sep string, tag Tag) error {
	text := strings.TrimSpace(line)
	if i := strings.Index(text, "#"); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	if text == "" {
		return nil
	}
	if sep != "" && strings.Contains(text, sep) {
		return s.addRange(text, sep, tag)
	}
	c, err := address.ParseCIDR(text)
	if err != nil {
		return err
	}
	s.Insert(Block{CIDR: c, Tag: tag})
	return nil
}

func (s *Set) addRange(text, sep string, tag Tag) error {
	fields := strings.SplitN(text, sep, 3)
	fromText := strings.TrimSpace(fields[0])
	toText := strings.TrimSpace(fields[1])
	if fromText == "" || toText == "" {
		return errors.Errorf("range %q: empty bound", text)
	}
	from, err := address.ParseCIDR(fromText)
	if err != nil {
		return err
	}
	to, err := address.ParseCIDR(toText)
	if err != nil {
		return err
	}
	if from.Family != to.Family {
		return errors.Errorf("range %q: mixed address families", text)
	}
	if from.Addr.Compare(to.Addr) > 0 {
		common.Log.Debugf("range %q: bounds out of order, ignored", text)
		return nil
	}
	r := address.Range{Family: from.Family, First: from.Addr, Last: to.Addr}
	for _, c := range r.CIDRs() {
		s.Insert(Block{CIDR: c, Tag: tag})
	}
	return nil
}

// Load feeds every line of r through AddLine. Lines with malformed
// addresses or prefixes are skipped with a debug log; structural and
// read errors abort.
func (s *Set) Load(r io.Reader, sep string, tag Tag) error {
	scanner := bufio.NewScanner(r)
	// Comment padding can push a line well past the scanner's default
	// 64KB token limit.
	scanner.Buffer(nil, 1024*1024)
	lines, skipped := 0, 0
	for scanner.Scan() {
		lines++
		if err := s.AddLine(scanner.Text(), sep, tag); err != nil {
			if !skippable(err) {
				return err
			}
			skipped++
			common.Log.Debugf("line %d: %v, skipped", lines, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading input")
	}
	if skipped > 0 {
		common.Log.Debugf("skipped %d of %d lines", skipped, lines)
	}
	return nil
}

func skippable(err error) bool {
	var parseErr *net.ParseError
	var rangeErr *address.RangeError
	return errors.As(err, &parseErr) || errors.As(err, &rangeErr)
}
