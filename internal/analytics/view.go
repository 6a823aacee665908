package analytics

import (
	"rotational-map/internal/parcel"

	"github.com/paulmach/orb"
)

// ViewState：初始视角
type ViewState struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      float64 `json:"zoom"`
	Pitch     float64 `json:"pitch"`
	Bearing   float64 `json:"bearing"`
}

// DefaultView：无数据时的清迈默认视角
var DefaultView = ViewState{Longitude: 98.98, Latitude: 18.79, Zoom: 10}

// InitialView：以全部地块代表点包围盒中心作为初始视角
func InitialView(all []parcel.Parcel) ViewState {
	if len(all) == 0 {
		return DefaultView
	}
	b := orb.Bound{Min: all[0].Anchor, Max: all[0].Anchor}
	for _, p := range all[1:] {
		b = b.Extend(p.Anchor)
	}
	c := b.Center()
	return ViewState{Longitude: c[0], Latitude: c[1], Zoom: 11, Pitch: 60}
}
