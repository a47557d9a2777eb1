package pdf

import (
	"testing"

	ledongthuc "github.com/ledongthuc/pdf"

	"todiem/internal/logger"
)

type fakeFrag struct {
	s    string
	x    float64
	size float64
}

// fakeFragments builds extraction fragments with a fixed 4pt advance per
// fragment, mimicking per-glyph output.
func fakeFragments(ff []fakeFrag) []ledongthuc.Text {
	out := make([]ledongthuc.Text, 0, len(ff))
	for _, f := range ff {
		out = append(out, ledongthuc.Text{
			S:        f.s,
			X:        f.x,
			Y:        742,
			W:        4,
			FontSize: f.size,
		})
	}
	return out
}

func testPages() []Page {
	return []Page{
		{
			Number: 1,
			Height: 842,
			Words: []Word{
				{Text: "Danh", X: 40, Top: 30, FontSize: 11},
				{Text: "sách", X: 70, Top: 30, FontSize: 11},
				{Text: "Điểm", X: 100, Top: 60, FontSize: 10},
				{Text: "100000001", X: 40, Top: 120, FontSize: 9},
				{Text: "100000002", X: 40, Top: 140, FontSize: 9},
			},
		},
		{
			Number: 2,
			Height: 842,
			Words: []Word{
				{Text: "Điểm", X: 105, Top: 55, FontSize: 10},
				{Text: "100000002", X: 40, Top: 120, FontSize: 9},
				{Text: "100000003", X: 40, Top: 140, FontSize: 9},
			},
		},
	}
}

func TestFindColumnAnchor(t *testing.T) {
	anchor := FindColumnAnchor(testPages(), logger.NewNop())
	if anchor == nil {
		t.Fatal("FindColumnAnchor() = nil, want anchor")
	}
	if anchor.X0 != 100 {
		t.Errorf("anchor.X0 = %v, want 100 (first page wins)", anchor.X0)
	}
	if anchor.Top != 60 || anchor.Bottom != 70 {
		t.Errorf("anchor top/bottom = %v/%v, want 60/70", anchor.Top, anchor.Bottom)
	}
}

func TestFindColumnAnchorEmbeddedInToken(t *testing.T) {
	pages := []Page{{Number: 1, Height: 842, Words: []Word{
		{Text: "Cột-Điểm-Thi", X: 88, Top: 50, FontSize: 10},
	}}}

	anchor := FindColumnAnchor(pages, logger.NewNop())
	if anchor == nil || anchor.X0 != 88 {
		t.Errorf("FindColumnAnchor() = %+v, want anchor at x=88", anchor)
	}
}

func TestFindColumnAnchorMissing(t *testing.T) {
	pages := []Page{{Number: 1, Height: 842, Words: []Word{
		{Text: "100000001", X: 40, Top: 120, FontSize: 9},
	}}}

	if anchor := FindColumnAnchor(pages, logger.NewNop()); anchor != nil {
		t.Errorf("FindColumnAnchor() = %+v, want nil", anchor)
	}
}

func TestFindStudentPositions(t *testing.T) {
	positions := FindStudentPositions(testPages(), logger.NewNop())

	if len(positions) != 3 {
		t.Fatalf("found %d positions, want 3", len(positions))
	}

	// First occurrence wins: 100000002 appears on both pages.
	p := positions["100000002"]
	if p.Page != 1 || p.Top != 140 {
		t.Errorf("100000002 at page %d top %v, want page 1 top 140", p.Page, p.Top)
	}

	if p := positions["100000003"]; p.Page != 2 {
		t.Errorf("100000003 at page %d, want 2", p.Page)
	}
}

func TestStudentIDPattern(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"100000001", true},
		{"999999999", true},
		{"012345678", false}, // leading zero
		{"12345678", false},  // 8 digits
		{"1234567890", false},
		{"1000000a1", false},
		{"Điểm", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := studentIDPattern.MatchString(tt.token); got != tt.want {
				t.Errorf("match(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestBuildWordsJoinsFragments(t *testing.T) {
	// Per-glyph fragments belonging to one token are joined; a wide gap
	// starts a new word.
	frags := fakeFragments([]fakeFrag{
		{"1", 40, 9}, {"0", 45, 9}, {"0", 50, 9},
		{"Điểm", 120, 10},
	})

	words := buildWords(frags, 842)
	if len(words) != 2 {
		t.Fatalf("buildWords() = %d words, want 2", len(words))
	}
	if words[0].Text != "100" || words[0].X != 40 {
		t.Errorf("words[0] = %+v, want text 100 at x=40", words[0])
	}
	if words[1].Text != "Điểm" {
		t.Errorf("words[1].Text = %q, want Điểm", words[1].Text)
	}
}

func TestBuildWordsSplitsOnWhitespaceFragment(t *testing.T) {
	frags := fakeFragments([]fakeFrag{
		{"ab", 40, 9}, {" ", 49, 9}, {"cd", 52, 9},
	})

	words := buildWords(frags, 842)
	if len(words) != 2 || words[0].Text != "ab" || words[1].Text != "cd" {
		t.Errorf("buildWords() = %+v, want [ab cd]", words)
	}
}
