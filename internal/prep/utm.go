// 包 prep：原始地块数据预处理；UTM 投影转 WGS84、土地利用分类、代表点计算
package prep

import (
	"math"

	"github.com/paulmach/orb"
)

// WGS84 椭球与 UTM 常量
const (
	wgsA      = 6378137.0
	wgsF      = 1 / 298.257223563
	utmK0     = 0.9996
	utmFalseE = 500000.0
	utmFalseN = 10000000.0
)

var (
	e2  = wgsF * (2 - wgsF)
	ep2 = e2 / (1 - e2)
)

// Zone：UTM 分带
type Zone struct {
	Number int
	North  bool
}

// UTM47N：EPSG:32647
var UTM47N = Zone{Number: 47, North: true}

func (z Zone) centralMeridian() float64 {
	return float64(z.Number*6-183) * math.Pi / 180
}

// ToWGS84：UTM (easting, northing) 米 → (lng, lat) 度
// 约束：级数展开，分带内精度优于 1e-7 度
func (z Zone) ToWGS84(p orb.Point) orb.Point {
	x := p[0] - utmFalseE
	y := p[1]
	if !z.North {
		y -= utmFalseN
	}

	m := y / utmK0
	mu := m / (wgsA * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))
	sq := math.Sqrt(1 - e2)
	e1 := (1 - sq) / (1 + sq)
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sin1, cos1, tan1 := math.Sin(phi1), math.Cos(phi1), math.Tan(phi1)
	w := 1 - e2*sin1*sin1
	n1 := wgsA / math.Sqrt(w)
	t1 := tan1 * tan1
	c1 := ep2 * cos1 * cos1
	r1 := wgsA * (1 - e2) / math.Pow(w, 1.5)
	d := x / (n1 * utmK0)

	lat := phi1 - (n1*tan1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lon := z.centralMeridian() + (d-
		(1+2*t1+c1)*math.Pow(d, 3)/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cos1

	return orb.Point{lon * 180 / math.Pi, lat * 180 / math.Pi}
}

// FromWGS84：(lng, lat) 度 → UTM (easting, northing) 米
func (z Zone) FromWGS84(p orb.Point) orb.Point {
	phi := p[1] * math.Pi / 180
	lam := p[0] * math.Pi / 180
	sinp, cosp, tanp := math.Sin(phi), math.Cos(phi), math.Tan(phi)

	n := wgsA / math.Sqrt(1-e2*sinp*sinp)
	t := tanp * tanp
	c := ep2 * cosp * cosp
	a := (lam - z.centralMeridian()) * cosp
	m := wgsA * ((1-e2/4-3*e2*e2/64-5*math.Pow(e2, 3)/256)*phi -
		(3*e2/8+3*e2*e2/32+45*math.Pow(e2, 3)/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*math.Pow(e2, 3)/1024)*math.Sin(4*phi) -
		(35*math.Pow(e2, 3)/3072)*math.Sin(6*phi))

	east := utmK0*n*(a+(1-t+c)*math.Pow(a, 3)/6+
		(5-18*t+t*t+72*c-58*ep2)*math.Pow(a, 5)/120) + utmFalseE
	north := utmK0 * (m + n*tanp*(a*a/2+
		(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
		(61-58*t+t*t+600*c-330*ep2)*math.Pow(a, 6)/720))
	if !z.North {
		north += utmFalseN
	}
	return orb.Point{east, north}
}
