package geom

import "testing"

func TestParsePixel(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12px", 12, true},
		{" 12.5px ", 12.5, true},
		{"40", 40, true},
		{"-3px", -3, true},
		{"auto", 0, false},
		{"", 0, false},
		{"1em", 0, false},
		{"NaNpx", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePixel(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParsePixel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(-4); got != "-4px" {
		t.Errorf("Format(-4) = %q", got)
	}
	if got := FormatFloat(40.333333); got != "40.33px" {
		t.Errorf("FormatFloat = %q", got)
	}
}

func TestWithClampsSizes(t *testing.T) {
	g := Geometry{Left: 1, Top: 2, Width: 11, Height: 10}
	g = g.With(FieldWidth, 3).With(FieldHeight, 9).With(FieldLeft, -5)
	want := Geometry{Left: -5, Top: 2, Width: MinSize, Height: MinSize}
	if g != want {
		t.Errorf("got %+v, want %+v", g, want)
	}
	if g.Get(FieldTop) != 2 {
		t.Error("Get(top) mismatch")
	}
}

func TestRound(t *testing.T) {
	if got := Round(1.4, 2.6, 99.5, 10); got != (Geometry{1, 3, 100, 10}) {
		t.Errorf("Round = %+v", got)
	}
}
