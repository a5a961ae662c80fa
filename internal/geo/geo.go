package geo

import "math"

const earthRadiusKm = 6371.0

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }

// DistanceKm returns the great-circle (haversine) distance between a and b in kilometers.
func DistanceKm(a, b Point) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// Lerp interpolates component-wise between a and b. t is not clamped;
// callers clamp to [0,1] when geographic sanity matters.
func Lerp(a, b Point, t float64) Point {
	return Point{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lon: a.Lon + (b.Lon-a.Lon)*t,
	}
}

// GreatCircleArc samples n points along the geodesic from start to end,
// endpoints included. n < 2 returns just the endpoints. If start and end
// are identical (or antipodal within tolerance) the samples degenerate to
// linear interpolation.
func GreatCircleArc(start, end Point, n int) []Point {
	if n < 2 {
		return []Point{start, end}
	}
	lat1, lon1 := toRad(start.Lat), toRad(start.Lon)
	lat2, lon2 := toRad(end.Lat), toRad(end.Lon)

	d := 2 * math.Asin(math.Sqrt(
		math.Pow(math.Sin((lat2-lat1)/2), 2)+
			math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin((lon2-lon1)/2), 2)))
	sinD := math.Sin(d)

	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		f := float64(i) / float64(n-1)
		if sinD < 1e-9 {
			pts[i] = Lerp(start, end, f)
			continue
		}
		a := math.Sin((1-f)*d) / sinD
		b := math.Sin(f*d) / sinD
		x := a*math.Cos(lat1)*math.Cos(lon1) + b*math.Cos(lat2)*math.Cos(lon2)
		y := a*math.Cos(lat1)*math.Sin(lon1) + b*math.Cos(lat2)*math.Sin(lon2)
		z := a*math.Sin(lat1) + b*math.Sin(lat2)
		pts[i] = Point{
			Lat: toDeg(math.Atan2(z, math.Sqrt(x*x+y*y))),
			Lon: toDeg(math.Atan2(y, x)),
		}
	}
	// keep exact endpoints despite floating error
	pts[0] = start
	pts[n-1] = end
	return pts
}

// BoundingBox returns the component-wise min/max of pts.
// ok is false for an empty input.
func BoundingBox(pts []Point) (min, max Point, ok bool) {
	if len(pts) == 0 {
		return Point{}, Point{}, false
	}
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		if p.Lat < min.Lat {
			min.Lat = p.Lat
		}
		if p.Lat > max.Lat {
			max.Lat = p.Lat
		}
		if p.Lon < min.Lon {
			min.Lon = p.Lon
		}
		if p.Lon > max.Lon {
			max.Lon = p.Lon
		}
	}
	return min, max, true
}

// CumulativeDistances returns the running distance in km along pts.
// Result has the same length as pts; empty input returns nil.
func CumulativeDistances(pts []Point) []float64 {
	n := len(pts)
	if n == 0 {
		return nil
	}
	cum := make([]float64, n)
	sum := 0.0
	for i := 1; i < n; i++ {
		sum += DistanceKm(pts[i-1], pts[i])
		cum[i] = sum
	}
	return cum
}

// Bearing returns the initial bearing from a to b in degrees [0, 360).
func Bearing(a, b Point) float64 {
	y := math.Sin(toRad(b.Lon-a.Lon)) * math.Cos(toRad(b.Lat))
	x := math.Cos(toRad(a.Lat))*math.Sin(toRad(b.Lat)) -
		math.Sin(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Cos(toRad(b.Lon-a.Lon))
	brng := toDeg(math.Atan2(y, x))
	if brng < 0 {
		brng += 360
	}
	return brng
}
