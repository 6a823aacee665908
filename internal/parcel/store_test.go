package parcel

import (
	"fmt"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"Carbon Sink", StatusCarbonSink},
		{"Active Farm", StatusActiveFarm},
		{" Active Farm ", StatusActiveFarm},
		{"CarbonSink", StatusCarbonSink},
		{"carbon sink", StatusOther},
		{"", StatusOther},
		{"Wetland", StatusOther},
	}
	for _, tc := range tests {
		if got := ParseStatus(tc.in); got != tc.want {
			t.Errorf("ParseStatus(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCropDefaultsToUnknown(t *testing.T) {
	if got := (Parcel{}).Crop(); got != UnknownCrop {
		t.Fatalf("Crop() = %q, want %q", got, UnknownCrop)
	}
	if got := (Parcel{CropType: "Rice"}).Crop(); got != "Rice" {
		t.Fatalf("Crop() = %q, want Rice", got)
	}
}

func TestNewStoreNormalizesAndDedups(t *testing.T) {
	s := NewStore([]Parcel{
		{ID: "a", AreaUnits: -3},
		{ID: "b", AreaUnits: math.NaN()},
		{ID: "a", AreaUnits: 99},
		{ID: "c", AreaUnits: 4},
	})
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	a, _ := s.Get("a")
	if a.AreaUnits != 0 {
		t.Errorf("a.AreaUnits = %v, want 0 (negative clamped, duplicate ignored)", a.AreaUnits)
	}
	b, _ := s.Get("b")
	if b.AreaUnits != 0 {
		t.Errorf("b.AreaUnits = %v, want 0", b.AreaUnits)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}
}

func TestLookupKeepsOrderAndSkipsUnknown(t *testing.T) {
	s := NewStore([]Parcel{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	got := s.Lookup([]string{"c", "x", "a"})
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Fatalf("Lookup = %+v, want [c a]", got)
	}
}

func TestInBoundsMatchesLinearScan(t *testing.T) {
	var ps []Parcel
	for i := 0; i < 200; i++ {
		lng := 98.0 + float64(i%20)*0.01
		lat := 18.0 + float64(i/20)*0.01
		ps = append(ps, Parcel{ID: fmt.Sprintf("p%d", i), Anchor: orb.Point{lng, lat}})
	}
	s := NewStore(ps)
	bounds := []orb.Bound{
		{Min: orb.Point{98.05, 18.02}, Max: orb.Point{98.10, 18.05}},
		{Min: orb.Point{97, 17}, Max: orb.Point{99, 19}},
		{Min: orb.Point{100, 20}, Max: orb.Point{101, 21}},
		{Min: orb.Point{98.0, 18.0}, Max: orb.Point{98.0, 18.0}},
	}
	for _, b := range bounds {
		var want []string
		for _, p := range ps {
			if b.Contains(p.Anchor) {
				want = append(want, p.ID)
			}
		}
		got := s.InBounds(b)
		if len(got) != len(want) {
			t.Fatalf("InBounds(%v) len = %d, want %d", b, len(got), len(want))
		}
		for i := range got {
			if got[i].ID != want[i] {
				t.Fatalf("InBounds(%v)[%d] = %s, want %s", b, i, got[i].ID, want[i])
			}
		}
	}
}

func TestBound(t *testing.T) {
	s := NewStore([]Parcel{
		{ID: "a", Anchor: orb.Point{98.1, 18.9}},
		{ID: "b", Anchor: orb.Point{98.5, 18.2}},
	})
	b := s.Bound()
	if b.Min != (orb.Point{98.1, 18.2}) || b.Max != (orb.Point{98.5, 18.9}) {
		t.Fatalf("Bound = %v", b)
	}
	if (NewStore(nil)).Bound() != (orb.Bound{}) {
		t.Fatal("empty store bound should be zero")
	}
}
