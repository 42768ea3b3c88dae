package grammar

import (
	"testing"
)

func testGrammar() *Grammar {
	return MustCompile("HE", []int{8, 9},
		`(?P<series>HE)(?P<ton>18|24|30|36|42|48|60)(?P<width>\d{3})(?P<met>[129])(?P<rds>[RN]?)`)
}

func TestMatchSegments(t *testing.T) {
	g := testGrammar()

	tests := []struct {
		name  string
		input string
		ok    bool
		segs  map[string]string
	}{
		{
			name:  "Full model with RDS suffix",
			input: "HE36212" + "1R",
			ok:    true,
			segs:  map[string]string{"series": "HE", "ton": "36", "width": "212", "met": "1", "rds": "R"},
		},
		{
			name:  "No suffix",
			input: "HE242451",
			ok:    true,
			segs:  map[string]string{"series": "HE", "ton": "24", "width": "245", "met": "1", "rds": ""},
		},
		{
			name:  "Wrong length",
			input: "HE3621",
			ok:    false,
		},
		{
			name:  "Invalid tonnage",
			input: "HE99212" + "1",
			ok:    false,
		},
		{
			name:  "Trailing garbage at accepted length",
			input: "HE362121X",
			ok:    false,
		},
		{
			name:  "Different series",
			input: "HD362121",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := g.Match(tt.input)
			if ok != tt.ok {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			for name, want := range tt.segs {
				if got := m.Segment(name); got != want {
					t.Errorf("segment %q = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestMatchInt(t *testing.T) {
	g := testGrammar()
	m, ok := g.Match("HE362121")
	if !ok {
		t.Fatal("expected match")
	}

	ton, err := m.Int("ton")
	if err != nil {
		t.Fatalf("Int(ton): %v", err)
	}
	if ton != 36 {
		t.Errorf("ton = %d, want 36", ton)
	}

	if _, err := m.Int("rds"); err == nil {
		t.Error("expected error parsing empty optional segment as int")
	}
	if _, err := m.Int("missing"); err == nil {
		t.Error("expected error for unknown segment")
	}
}

func TestLengths(t *testing.T) {
	g := testGrammar()
	lengths := g.Lengths()
	if len(lengths) != 2 || lengths[0] != 8 || lengths[1] != 9 {
		t.Errorf("Lengths() = %v, want [8 9]", lengths)
	}
}

func TestDecoded(t *testing.T) {
	g := testGrammar()
	m, _ := g.Match("HE362129N")
	d := m.Decoded()
	if d.Series != "HE" || d.Raw != "HE362129N" {
		t.Errorf("Decoded() = %+v", d)
	}
	if d.Segments["met"] != "9" || d.Segments["rds"] != "N" {
		t.Errorf("segments = %v", d.Segments)
	}
}
