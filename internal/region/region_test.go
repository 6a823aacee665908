package region

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func square(x0, y0, size float64) orb.Ring {
	return orb.Ring{{x0, y0}, {x0 + size, y0}, {x0 + size, y0 + size}, {x0, y0 + size}, {x0, y0}}
}

func TestCentroidIsVertexMean(t *testing.T) {
	r := Region{Name: "a", Ring: orb.Ring{{0, 0}, {4, 0}, {4, 2}}}
	c, ok := r.Centroid()
	if !ok {
		t.Fatal("Centroid ok = false")
	}
	if math.Abs(c[0]-8.0/3) > 1e-12 || math.Abs(c[1]-2.0/3) > 1e-12 {
		t.Fatalf("Centroid = %v, want (8/3, 2/3)", c)
	}

	// closing vertex counts twice: mean of 5 points, not the square's center
	c, _ = Region{Ring: square(0, 0, 10)}.Centroid()
	if math.Abs(c[0]-4) > 1e-12 || math.Abs(c[1]-4) > 1e-12 {
		t.Fatalf("closed ring Centroid = %v, want (4, 4)", c)
	}
}

func TestCentroidEmptyOrNaN(t *testing.T) {
	if _, ok := (Region{}).Centroid(); ok {
		t.Error("empty ring should not resolve")
	}
	if _, ok := (Region{Ring: orb.Ring{{math.NaN(), 1}}}).Centroid(); ok {
		t.Error("NaN ring should not resolve")
	}
}

func TestContains(t *testing.T) {
	r := Region{Ring: square(0, 0, 10)}
	tests := []struct {
		pt   orb.Point
		want bool
	}{
		{orb.Point{5, 5}, true},
		{orb.Point{11, 5}, false},
		{orb.Point{-1, -1}, false},
	}
	for _, tc := range tests {
		if got := r.Contains(tc.pt); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.pt, got, tc.want)
		}
	}
	if (Region{Ring: orb.Ring{{0, 0}, {1, 1}}}).Contains(orb.Point{0.5, 0.5}) {
		t.Error("degenerate ring should not contain points")
	}
}

func TestStore(t *testing.T) {
	s := NewStore([]Region{
		{Name: "บ้านดง", Ring: square(0, 0, 10), TotalAreaUnits: 100},
		{Name: "บ้านป่าแดง", Ring: square(20, 0, 10)},
		{Name: "บ้านดง", Ring: square(50, 50, 1), TotalAreaUnits: 1},
		{Name: "empty"},
	})
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	r, ok := s.Get("บ้านดง")
	if !ok || r.TotalAreaUnits != 100 {
		t.Fatalf("Get kept %+v, want first occurrence", r)
	}
	if _, ok := s.Center("empty"); ok {
		t.Error("Center(empty) should not resolve")
	}
	if _, ok := s.Center("nowhere"); ok {
		t.Error("Center(nowhere) should not resolve")
	}
	if got, ok := s.At(orb.Point{25, 5}); !ok || got.Name != "บ้านป่าแดง" {
		t.Errorf("At(25,5) = %v %v", got.Name, ok)
	}
	if _, ok := s.At(orb.Point{100, 100}); ok {
		t.Error("At(100,100) should miss")
	}
}
