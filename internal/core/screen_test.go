package core

import "testing"

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 5)

	s.Set(2, 3, '@', ColorRed)
	if got := s.Get(2, 3); got.Rune != '@' || got.Color != ColorRed {
		t.Errorf("Get(2,3) = %+v, want '@' red", got)
	}

	// Out of bounds writes are ignored, reads return a blank cell
	s.Set(-1, 0, 'x', ColorDefault)
	s.Set(10, 0, 'x', ColorDefault)
	if got := s.Get(10, 0); got.Rune != ' ' {
		t.Errorf("out of bounds Get = %q, want space", got.Rune)
	}
}

func TestScreenDrawTextClips(t *testing.T) {
	s := NewScreen(5, 1)
	s.DrawText(3, 0, "abcdef", ColorDefault)

	if got := s.Row(0); got != "   ab" {
		t.Errorf("Row(0) = %q, want %q", got, "   ab")
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(9, 1)
	s.DrawTextCentered(0, "abc", ColorDefault)

	if got := s.Row(0); got != "   abc   " {
		t.Errorf("Row(0) = %q", got)
	}
}

func TestScreenResizeClears(t *testing.T) {
	s := NewScreen(3, 3)
	s.Set(1, 1, '#', ColorDefault)
	s.Resize(4, 2)

	if s.Width() != 4 || s.Height() != 2 {
		t.Fatalf("size = %dx%d, want 4x2", s.Width(), s.Height())
	}
	if got := s.Get(1, 1).Rune; got != ' ' {
		t.Errorf("resized screen not cleared, got %q", got)
	}
}

func TestVecReflect(t *testing.T) {
	v := V(1, 2)
	got := v.Reflect(V(0, -1))
	if got != V(1, -2) {
		t.Errorf("Reflect = %+v, want {1 -2}", got)
	}
}

func TestColorANSI(t *testing.T) {
	tests := []struct {
		c    Color
		want int
	}{
		{ColorDefault, -1},
		{ColorRed, 1},
		{ColorBrightRed, 9},
		{ColorOrange, 208},
		{ColorGray, 245},
	}
	for _, tt := range tests {
		if got := tt.c.ANSI(); got != tt.want {
			t.Errorf("%d.ANSI() = %d, want %d", tt.c, got, tt.want)
		}
	}
}
