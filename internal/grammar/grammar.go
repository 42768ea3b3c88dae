// Package grammar implements the positional/alternation patterns that decide
// which raw strings are valid model numbers for a product series, and the
// generic tokenizer that turns a valid string into named segment values.
package grammar

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// Grammar is the immutable matching rule for one product series. A raw
// string is valid iff its length is in the accepted set and the compiled
// pattern matches it in full. Grammars are reference data, built once at
// startup and never mutated.
type Grammar struct {
	series  string
	lengths map[int]struct{}
	pattern *regexp.Regexp
	names   []string
}

// MustCompile builds a grammar from a series identifier, the set of accepted
// normalized lengths, and a pattern with named capture groups. The pattern is
// anchored on both ends if the caller did not anchor it.
func MustCompile(series string, lengths []int, expr string) *Grammar {
	if len(expr) == 0 || expr[0] != '^' {
		expr = "^" + expr + "$"
	}
	re := regexp.MustCompile(expr)

	ls := make(map[int]struct{}, len(lengths))
	for _, l := range lengths {
		ls[l] = struct{}{}
	}

	var names []string
	for _, n := range re.SubexpNames() {
		if n != "" {
			names = append(names, n)
		}
	}

	return &Grammar{
		series:  series,
		lengths: ls,
		pattern: re,
		names:   names,
	}
}

// Series returns the series identifier this grammar belongs to.
func (g *Grammar) Series() string {
	return g.series
}

// Lengths returns the accepted normalized lengths in ascending order.
func (g *Grammar) Lengths() []int {
	out := make([]int, 0, len(g.lengths))
	for l := range g.lengths {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// Match tests a normalized candidate against the grammar. The boolean result
// is the ordinary outcome for non-models; no error is ever raised here.
func (g *Grammar) Match(normalized string) (*Match, bool) {
	if _, ok := g.lengths[len(normalized)]; !ok {
		return nil, false
	}

	sub := g.pattern.FindStringSubmatch(normalized)
	if sub == nil || len(sub[0]) != len(normalized) {
		return nil, false
	}

	segments := make(map[string]string, len(g.names))
	for i, name := range g.pattern.SubexpNames() {
		if name == "" {
			continue
		}
		segments[name] = sub[i]
	}

	return &Match{
		series:   g.series,
		raw:      normalized,
		segments: segments,
	}, true
}

// Match is the tokenized result of one successful grammar match.
type Match struct {
	series   string
	raw      string
	segments map[string]string
}

// Series returns the matched grammar's series identifier.
func (m *Match) Series() string { return m.series }

// Raw returns the normalized text that matched.
func (m *Match) Raw() string { return m.raw }

// Segment returns the captured value for a named segment, empty when the
// segment was optional and absent.
func (m *Match) Segment(name string) string {
	return m.segments[name]
}

// Int parses a named segment as a base-10 integer.
func (m *Match) Int(name string) (int, error) {
	v, ok := m.segments[name]
	if !ok || v == "" {
		return 0, fmt.Errorf("segment %q not captured in %q", name, m.raw)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("segment %q of %q is not numeric: %w", name, m.raw, err)
	}
	return n, nil
}

// Decoded converts the match into the transport-friendly DecodedModel shape.
func (m *Match) Decoded() types.DecodedModel {
	segs := make(map[string]string, len(m.segments))
	for k, v := range m.segments {
		segs[k] = v
	}
	return types.DecodedModel{
		Series:   m.series,
		Raw:      m.raw,
		Segments: segs,
	}
}
