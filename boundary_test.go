package sepconv

import (
	"errors"
	"testing"
)

func TestBoundaryDefaultIsSame(t *testing.T) {
	var b Boundary
	if b != Same {
		t.Errorf("zero Boundary = %v, want same", b)
	}
}

func TestBoundaryString(t *testing.T) {
	tests := []struct {
		b    Boundary
		want string
	}{
		{Same, "same"},
		{Valid, "valid"},
		{Reflect, "reflect"},
		{Replicate, "replicate"},
		{Boundary(9), "boundary(9)"},
	}

	for _, tt := range tests {
		if got := tt.b.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseBoundary(t *testing.T) {
	for _, name := range []string{"same", "Valid", "REFLECT", "replicate"} {
		b, err := ParseBoundary(name)
		if err != nil {
			t.Errorf("ParseBoundary(%q) = %v", name, err)
			continue
		}
		if !b.IsValid() {
			t.Errorf("ParseBoundary(%q) = %v, not valid", name, b)
		}
	}

	if _, err := ParseBoundary("wrap"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("ParseBoundary(wrap) error = %v, want ErrConfiguration", err)
	}
}

func TestBoundaryResolve(t *testing.T) {
	tests := []struct {
		b      Boundary
		index  int
		want   int
		wantOK bool
	}{
		{Same, -1, 0, false},
		{Same, 2, 2, true},
		{Valid, 5, 0, false},
		{Reflect, -1, 1, true},
		{Reflect, 5, 3, true},
		{Replicate, -1, 0, true},
		{Replicate, 5, 4, true},
	}

	for _, tt := range tests {
		got, ok := tt.b.Resolve(tt.index, 5)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%v.Resolve(%d, 5) = (%d, %v), want (%d, %v)",
				tt.b, tt.index, got, ok, tt.want, tt.wantOK)
		}
	}
}
