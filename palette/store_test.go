package palette

import (
	"errors"
	"testing"
)

// TestNewStoreSeedsBackground verifies the checker colours take the first two slots.
func TestNewStoreSeedsBackground(t *testing.T) {
	tests := []struct {
		channels  int
		wantDark  Color
		wantLight Color
	}{
		{1, Gray(77), Gray(115)},
		{2, NewColor(77, 255), NewColor(115, 255)},
		{3, NewColor(77, 77, 77), NewColor(115, 115, 115)},
		{4, RGBA(77, 77, 77, 255), RGBA(115, 115, 115, 255)},
	}
	for _, tt := range tests {
		s := MustNewStore(tt.channels)
		if s.Len() != 2 {
			t.Errorf("channels=%d: Len() = %d, want 2", tt.channels, s.Len())
		}
		dark, err := s.Get(BackgroundDark)
		if err != nil || dark != tt.wantDark {
			t.Errorf("channels=%d: Get(BackgroundDark) = %v, %v, want %v", tt.channels, dark, err, tt.wantDark)
		}
		light, err := s.Get(BackgroundLight)
		if err != nil || light != tt.wantLight {
			t.Errorf("channels=%d: Get(BackgroundLight) = %v, %v, want %v", tt.channels, light, err, tt.wantLight)
		}
	}
}

func TestNewStoreInvalidChannels(t *testing.T) {
	for _, n := range []int{0, 5, -1} {
		if _, err := NewStore(n); !errors.Is(err, ErrInvalidChannels) {
			t.Errorf("NewStore(%d) error = %v, want ErrInvalidChannels", n, err)
		}
	}
}

// TestPutOrGetDeterministic checks equal colours share an index and
// distinct colours never do.
func TestPutOrGetDeterministic(t *testing.T) {
	s := MustNewStore(4)
	seen := make(map[Index]Color)
	for i := range 600 {
		c := RGBA(byte(i), byte(i>>8), 7, 255)
		a, err := s.PutOrGet(c)
		if err != nil {
			t.Fatalf("PutOrGet(%v) error: %v", c, err)
		}
		b, _ := s.PutOrGet(RGBA(byte(i), byte(i>>8), 7, 255))
		if a != b {
			t.Errorf("PutOrGet not deterministic for %v: %v != %v", c, a, b)
		}
		if prev, dup := seen[a]; dup && prev != c {
			t.Errorf("index %v shared by %v and %v", a, prev, c)
		}
		seen[a] = c
	}
}

func TestPutOrGetRowMajor(t *testing.T) {
	s := MustNewStore(1, WithRowWidth(4))
	want := []Index{{2, 0}, {3, 0}, {0, 1}, {1, 1}, {2, 1}}
	for i, w := range want {
		got, err := s.PutOrGet(Gray(byte(i)))
		if err != nil {
			t.Fatalf("PutOrGet error: %v", err)
		}
		if got != w {
			t.Errorf("color %d: index = %v, want %v", i, got, w)
		}
	}
	if s.Rows() != 2 {
		t.Errorf("Rows() = %d, want 2", s.Rows())
	}
}

func TestPutOrGetExhausted(t *testing.T) {
	s := MustNewStore(1, WithRowWidth(2), WithMaxRows(2))
	if _, err := s.PutOrGet(Gray(1)); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if _, err := s.PutOrGet(Gray(2)); err != nil {
		t.Fatalf("second put: %v", err)
	}
	before := s.Len()
	if _, err := s.PutOrGet(Gray(3)); !errors.Is(err, ErrExhausted) {
		t.Errorf("PutOrGet on full store error = %v, want ErrExhausted", err)
	}
	if s.Len() != before {
		t.Errorf("Len changed after exhaustion: %d -> %d", before, s.Len())
	}
	// Existing colours still resolve.
	if _, err := s.PutOrGet(Gray(1)); err != nil {
		t.Errorf("PutOrGet existing on full store: %v", err)
	}
}

func TestPutOrGetChannelMismatch(t *testing.T) {
	s := MustNewStore(4)
	if _, err := s.PutOrGet(Gray(1)); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("error = %v, want ErrInvalidColor", err)
	}
}

func TestGetOutOfRange(t *testing.T) {
	s := MustNewStore(3)
	for _, idx := range []Index{{2, 0}, {0, 1}, {300, 0}} {
		if _, err := s.Get(idx); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Get(%v) error = %v, want ErrOutOfRange", idx, err)
		}
	}
}

func TestTexels(t *testing.T) {
	s := MustNewStore(2, WithRowWidth(4))
	_, _ = s.PutOrGet(NewColor(9, 10))
	got := s.Texels()
	want := []byte{77, 255, 115, 255, 9, 10, 0, 0}
	if len(got) != len(want) {
		t.Fatalf("len(Texels()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Texels()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestVersion(t *testing.T) {
	s := MustNewStore(1)
	v := s.Version()
	_, _ = s.PutOrGet(Gray(77))
	if s.Version() != v {
		t.Error("Version changed on existing colour")
	}
	_, _ = s.PutOrGet(Gray(1))
	if s.Version() == v {
		t.Error("Version unchanged after allocation")
	}
}

func TestColorNRGBA(t *testing.T) {
	tests := []struct {
		c    Color
		want [4]byte
	}{
		{Gray(10), [4]byte{10, 10, 10, 255}},
		{NewColor(10, 20), [4]byte{10, 10, 10, 20}},
		{NewColor(1, 2, 3), [4]byte{1, 2, 3, 255}},
		{RGBA(1, 2, 3, 4), [4]byte{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		n := tt.c.NRGBA()
		got := [4]byte{n.R, n.G, n.B, n.A}
		if got != tt.want {
			t.Errorf("%v.NRGBA() = %v, want %v", tt.c, got, tt.want)
		}
	}
}
