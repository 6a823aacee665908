package analytics

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"rotational-map/internal/parcel"

	"github.com/paulmach/orb"
)

func sink(id string, area float64, crop string) parcel.Parcel {
	return parcel.Parcel{ID: id, AreaUnits: area, Status: parcel.StatusCarbonSink, CropType: crop}
}

func farm(id string, area float64, crop string) parcel.Parcel {
	return parcel.Parcel{ID: id, AreaUnits: area, Status: parcel.StatusActiveFarm, CropType: crop}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	want := Summary{CropDistribution: []CropCount{}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Summarize(nil) = %+v, want %+v", got, want)
	}
	b, _ := json.Marshal(got)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if d, ok := m["crop_distribution"].([]any); !ok || len(d) != 0 {
		t.Fatalf("crop_distribution should serialize as [], got %s", b)
	}
}

func TestSummarizeCounts(t *testing.T) {
	visible := []parcel.Parcel{
		sink("1", 100, "ไร่ร้าง"),
		farm("2", 50, "ข้าว"),
		sink("3", 20.5, "Bush"),
		{ID: "4", AreaUnits: 999, Status: parcel.StatusOther, CropType: "ข้าว"},
	}
	got := Summarize(visible)
	if got.CarbonSinkCount != 2 || got.ActiveFarmCount != 1 || got.OtherCount != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/1", got.CarbonSinkCount, got.ActiveFarmCount, got.OtherCount)
	}
	if got.CarbonSinkArea != 120.5 {
		t.Errorf("CarbonSinkArea = %v, want 120.5", got.CarbonSinkArea)
	}
	if got.CarbonEstimate != got.CarbonSinkArea*CarbonPerRai {
		t.Errorf("CarbonEstimate = %v, want %v", got.CarbonEstimate, got.CarbonSinkArea*CarbonPerRai)
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	visible := []parcel.Parcel{farm("a", 1, "x"), sink("b", 2, "y"), farm("c", 3, "y")}
	before := append([]parcel.Parcel(nil), visible...)
	Summarize(visible)
	if !reflect.DeepEqual(visible, before) {
		t.Fatal("Summarize mutated its input")
	}
}

func TestCropDistributionTopFiveStable(t *testing.T) {
	var visible []parcel.Parcel
	add := func(crop string, n int) {
		for i := 0; i < n; i++ {
			visible = append(visible, farm("", 1, crop))
		}
	}
	add("corn", 2)
	add("rice", 3)
	add("", 2) // Unknown
	add("bean", 2)
	add("taro", 1)
	add("cabbage", 2)
	add("tea", 3)

	got := Summarize(visible).CropDistribution
	want := []CropCount{
		{"rice", 3}, {"tea", 3}, {"corn", 2}, {parcel.UnknownCrop, 2}, {"bean", 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CropDistribution = %+v, want %+v", got, want)
	}
}

func TestCropDistributionProperties(t *testing.T) {
	crops := []string{"a", "b", "c", "d", "e", "f", "g", "a", "c", "c", "g", "b"}
	var visible []parcel.Parcel
	for _, c := range crops {
		visible = append(visible, sink("", 1, c))
	}
	d := Summarize(visible).CropDistribution
	if len(d) > TopCrops {
		t.Fatalf("len = %d, want <= %d", len(d), TopCrops)
	}
	for i := 1; i < len(d); i++ {
		if d[i].Count > d[i-1].Count {
			t.Fatalf("not descending at %d: %+v", i, d)
		}
	}
}

func TestGlobalStats(t *testing.T) {
	tests := []struct {
		name      string
		parcels   []parcel.Parcel
		wantRatio float64
		wantText  string
	}{
		{"empty", nil, 0, "0"},
		{"forty percent", []parcel.Parcel{sink("a", 40, ""), farm("b", 60, "")}, 40, "0.7"},
		{"no farms", []parcel.Parcel{sink("a", 10, "")}, 100, "∞"},
		{"zero areas", []parcel.Parcel{sink("a", 0, ""), farm("b", 0, "")}, 0, "0"},
		{"two and a half", []parcel.Parcel{sink("a", 5, ""), farm("b", 2, "")}, 5.0 / 7 * 100, "2.5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := GlobalStats(tc.parcels)
			if math.Abs(g.RestorationRatio-tc.wantRatio) > 1e-9 {
				t.Errorf("RestorationRatio = %v, want %v", g.RestorationRatio, tc.wantRatio)
			}
			if g.RatioText != tc.wantText {
				t.Errorf("RatioText = %q, want %q", g.RatioText, tc.wantText)
			}
		})
	}
}

func TestGlobalStatsIncludesOtherInTotal(t *testing.T) {
	g := GlobalStats([]parcel.Parcel{
		sink("a", 30, ""),
		{ID: "b", AreaUnits: 70, Status: parcel.StatusOther},
	})
	if g.TotalArea != 100 || g.ActiveFarmArea != 0 || g.RestorationRatio != 30 {
		t.Fatalf("Global = %+v", g)
	}
}

func TestRatioText(t *testing.T) {
	tests := []struct {
		sink, farm float64
		want       string
	}{
		{10, 0, "∞"},
		{0, 0, "0"},
		{5, 2, "2.5"},
		{0, 3, "0.0"},
	}
	for _, tc := range tests {
		if got := RatioText(tc.sink, tc.farm); got != tc.want {
			t.Errorf("RatioText(%v, %v) = %q, want %q", tc.sink, tc.farm, got, tc.want)
		}
	}
}

func TestScenarioTwoParcels(t *testing.T) {
	all := []parcel.Parcel{sink("1", 100, ""), farm("2", 50, "")}
	g := GlobalStats(all)
	if math.Round(g.RestorationRatio*100)/100 != 66.67 {
		t.Errorf("RestorationRatio = %v, want 66.67 rounded", g.RestorationRatio)
	}
	if g.RatioText != "2.0" {
		t.Errorf("RatioText = %q, want 2.0", g.RatioText)
	}
	if s := Summarize(all[:1]); s.CarbonEstimate != 120 {
		t.Errorf("CarbonEstimate = %v, want 120", s.CarbonEstimate)
	}
}

func TestApplyFilter(t *testing.T) {
	ps := []parcel.Parcel{sink("a", 1, ""), farm("b", 1, ""), {ID: "c"}, sink("d", 1, "")}
	ids := func(ps []parcel.Parcel) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}
	if got := ids(ApplyFilter(ps, FilterAll)); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("all = %v", got)
	}
	if got := ids(ApplyFilter(ps, FilterCarbonSink)); !reflect.DeepEqual(got, []string{"a", "d"}) {
		t.Errorf("carbon sink = %v", got)
	}
	if got := ids(ApplyFilter(ps, FilterActiveFarm)); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("active farm = %v", got)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
		ok   bool
	}{
		{"", FilterAll, true},
		{"all", FilterAll, true},
		{"Carbon Sink", FilterCarbonSink, true},
		{"active_farm", FilterActiveFarm, true},
		{"Wetland", FilterAll, false},
	}
	for _, tc := range tests {
		got, ok := ParseFilter(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseFilter(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParcelCarbon(t *testing.T) {
	if got := ParcelCarbon(sink("a", 10, "")); got != 12 {
		t.Errorf("ParcelCarbon(sink 10) = %v, want 12", got)
	}
	if got := ParcelCarbon(farm("b", 10, "")); got != 0 {
		t.Errorf("ParcelCarbon(farm) = %v, want 0", got)
	}
}

func TestInitialView(t *testing.T) {
	if got := InitialView(nil); got != DefaultView {
		t.Fatalf("InitialView(nil) = %+v", got)
	}
	got := InitialView([]parcel.Parcel{
		{Anchor: orb.Point{98.0, 18.0}},
		{Anchor: orb.Point{99.0, 19.0}},
		{Anchor: orb.Point{98.2, 18.5}},
	})
	want := ViewState{Longitude: 98.5, Latitude: 18.5, Zoom: 11, Pitch: 60}
	if got != want {
		t.Fatalf("InitialView = %+v, want %+v", got, want)
	}
}
