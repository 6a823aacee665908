package dataset

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"rotational-map/internal/parcel"

	"github.com/paulmach/orb"
)

func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	d, err := Load(context.Background(), Config{
		Source:      SourceGeoJSON,
		ParcelsPath: filepath.Join("testdata", "parcels.geojson"),
		RegionsPath: filepath.Join("testdata", "villages.geojson"),
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestLoadParcels(t *testing.T) {
	d := loadFixture(t)
	if d.Parcels.Len() != 3 {
		t.Fatalf("parcels = %d, want 3 (feature without geometry or coordinates skipped)", d.Parcels.Len())
	}

	a, ok := d.Parcels.Get("A-1")
	if !ok {
		t.Fatal("A-1 missing")
	}
	if a.Status != parcel.StatusCarbonSink || a.AreaUnits != 10 || a.Anchor != (orb.Point{98.9, 18.7}) {
		t.Fatalf("A-1 = %+v", a)
	}
	if _, isPoly := a.Geometry.(orb.Polygon); !isPoly {
		t.Fatalf("geometry = %T", a.Geometry)
	}

	b, ok := d.Parcels.Get("18")
	if !ok {
		t.Fatal("feature id fallback missing")
	}
	if b.AreaUnits != 5.5 || b.Status != parcel.StatusActiveFarm {
		t.Fatalf("18 = %+v", b)
	}
	if math.Abs(b.Anchor[0]-1) > 1e-9 || math.Abs(b.Anchor[1]-1) > 1e-9 {
		t.Fatalf("centroid anchor = %v, want [1 1]", b.Anchor)
	}

	c, ok := d.Parcels.Get("parcel-2")
	if !ok {
		t.Fatal("index fallback missing")
	}
	if c.Status != parcel.StatusOther || c.AreaUnits != 0 || c.Crop() != "Unknown" || c.Anchor != (orb.Point{99.0, 18.8}) {
		t.Fatalf("parcel-2 = %+v", c)
	}
}

func TestLoadRegions(t *testing.T) {
	d := loadFixture(t)
	if d.Regions.Len() != 2 {
		t.Fatalf("regions = %d, want 2 (unnamed skipped)", d.Regions.Len())
	}
	dong, _ := d.Regions.Get("บ้านดง")
	if dong.TotalAreaUnits != 120.5 || len(dong.Ring) != 5 {
		t.Fatalf("บ้านดง = %+v", dong)
	}
	pd, _ := d.Regions.Get("บ้านป่าแดง")
	if len(pd.Ring) != 4 || pd.Ring[0] != (orb.Point{10, 10}) {
		t.Fatalf("multipolygon ring = %v", pd.Ring)
	}
	if all := d.Regions.All(); all[0].Name != "บ้านดง" || all[1].Name != "บ้านป่าแดง" {
		t.Fatal("load order not kept")
	}
}

func TestLoadGlobalAndView(t *testing.T) {
	d := loadFixture(t)
	if d.Global.TotalArea != 15.5 || d.Global.CarbonSinkArea != 10 || d.Global.ActiveFarmArea != 5.5 {
		t.Fatalf("Global = %+v", d.Global)
	}
	if d.View.Zoom != 11 || d.View.Pitch != 60 {
		t.Fatalf("View = %+v", d.View)
	}
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := Load(ctx, Config{Source: "csv"}); err == nil {
		t.Error("unknown source accepted")
	}
	if _, err := Load(ctx, Config{Source: SourcePostgres}); err == nil {
		t.Error("postgres source without db accepted")
	}
	if _, err := Load(ctx, Config{ParcelsPath: "testdata/missing.geojson", RegionsPath: "testdata/villages.geojson"}); err == nil {
		t.Error("missing file accepted")
	}
}

func TestToFloatAndString(t *testing.T) {
	floats := []struct {
		in   any
		want float64
	}{
		{12.5, 12.5}, {"3.25", 3.25}, {" 4 ", 4}, {"x", 0}, {nil, 0}, {true, 0}, {int64(9), 9},
	}
	for _, c := range floats {
		if got := toFloat(c.in); got != c.want {
			t.Errorf("toFloat(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	strs := []struct {
		in   any
		want string
	}{
		{"a", "a"}, {float64(17), "17"}, {1.5, "1.5"}, {nil, ""}, {42, "42"},
	}
	for _, c := range strs {
		if got := toString(c.in); got != c.want {
			t.Errorf("toString(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEncodeGeometry(t *testing.T) {
	s, err := encodeGeometry(nil)
	if err != nil || s != "null" {
		t.Fatalf("nil geometry = %q, %v", s, err)
	}
	s, err = encodeGeometry(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`; s != want {
		t.Fatalf("encoded = %s, want %s", s, want)
	}
}
