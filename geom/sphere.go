/*package geom contains the spherical geometry used by the cone queries:
angular distances, the Cone type and the predicates which compare a cone
against the sampled boundary of a cell.

All angles are in radians. Longitudes are taken modulo 2 pi and latitudes
must lie in [-pi/2, pi/2]. Distances are computed with the haversine form so
that small separations don't lose precision, and every predicate works on
the sphere directly, so callers never have to care about the 0/2 pi seam or
the poles.
*/
package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	TwoPi  = 2 * math.Pi
	HalfPi = math.Pi / 2
)

// ErrInvalidArgument is returned (wrapped) whenever a coordinate or radius
// is out of range.
var ErrInvalidArgument = errors.New("invalid argument")

// Coo is a position on the unit sphere.
type Coo struct {
	Lon, Lat float64
}

// LatLng converts the position to its s2 representation.
func (c Coo) LatLng() s2.LatLng {
	return s2.LatLng{Lat: s1.Angle(c.Lat), Lng: s1.Angle(c.Lon)}
}

// Point converts the position to a unit vector.
func (c Coo) Point() s2.Point {
	return s2.PointFromLatLng(c.LatLng())
}

// NormalizeLon maps a longitude into [0, 2 pi).
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon, TwoPi)
	if lon < 0 {
		lon += TwoPi
	}
	if lon >= TwoPi {
		// math.Mod(-tiny, 2pi) + 2pi rounds up to 2pi.
		lon = 0
	}
	return lon
}

// CheckLonLat returns an error if lon is not finite or if lat is not a
// valid latitude.
func CheckLonLat(lon, lat float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("%w: longitude %g is not finite",
			ErrInvalidArgument, lon)
	}
	if math.IsNaN(lat) || lat < -HalfPi || lat > HalfPi {
		return fmt.Errorf("%w: latitude %g is outside [-pi/2, pi/2]",
			ErrInvalidArgument, lat)
	}
	return nil
}

// AngularDistance returns the great-circle distance between two positions,
// in the range [0, pi].
func AngularDistance(lon1, lat1, lon2, lat2 float64) float64 {
	a := s2.LatLng{Lat: s1.Angle(lat1), Lng: s1.Angle(lon1)}
	b := s2.LatLng{Lat: s1.Angle(lat2), Lng: s1.Angle(lon2)}
	return a.Distance(b).Radians()
}

// Destination returns the position reached by travelling the angular
// distance dist from (lon, lat) along the initial bearing bearing (measured
// from north towards east).
func Destination(lon, lat, dist, bearing float64) (lon2, lat2 float64) {
	sinLat, cosLat := math.Sincos(lat)
	sinD, cosD := math.Sincos(dist)
	sinLat2 := sinLat*cosD + cosLat*sinD*math.Cos(bearing)
	if sinLat2 > 1 {
		sinLat2 = 1
	} else if sinLat2 < -1 {
		sinLat2 = -1
	}
	lat2 = math.Asin(sinLat2)
	lon2 = lon + math.Atan2(
		math.Sin(bearing)*sinD*cosLat, cosD-sinLat*sinLat2,
	)
	return NormalizeLon(lon2), lat2
}

// Cone is a spherical cap: every point within Radius of a center.
type Cone struct {
	lon, lat, radius float64

	center s2.LatLng
	point  s2.Point
}

// NewCone validates its arguments and returns the corresponding Cone. The
// longitude is taken modulo 2 pi. Radii at or above pi are accepted and
// describe the whole sphere.
func NewCone(lon, lat, radius float64) (*Cone, error) {
	if err := CheckLonLat(lon, lat); err != nil {
		return nil, err
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return nil, fmt.Errorf("%w: cone radius %g must be finite and "+
			"positive", ErrInvalidArgument, radius)
	}

	c := &Cone{lon: NormalizeLon(lon), lat: lat, radius: radius}
	c.center = Coo{c.lon, c.lat}.LatLng()
	c.point = s2.PointFromLatLng(c.center)
	return c, nil
}

// Lon, Lat and Radius return the cone's center and angular radius, in
// radians.
func (c *Cone) Lon() float64    { return c.lon }
func (c *Cone) Lat() float64    { return c.lat }
func (c *Cone) Radius() float64 { return c.radius }

// WholeSphere returns true if the cone covers every point of the sphere.
func (c *Cone) WholeSphere() bool { return c.radius >= math.Pi }

// Antipode returns the point opposite the cone's center.
func (c *Cone) Antipode() Coo {
	return Coo{NormalizeLon(c.lon + math.Pi), -c.lat}
}

// Distance returns the angular distance between the cone's center and
// (lon, lat).
func (c *Cone) Distance(lon, lat float64) float64 {
	ll := s2.LatLng{Lat: s1.Angle(lat), Lng: s1.Angle(lon)}
	return c.center.Distance(ll).Radians()
}

// ContainsPoint returns true if (lon, lat) lies inside the cone.
func (c *Cone) ContainsPoint(lon, lat float64) bool {
	return c.Distance(lon, lat) <= c.radius
}

// MayIntersect is the conservative rejection test: it returns false only if
// the cap of radius boundingRadius around (lon, lat) cannot touch the cone.
func (c *Cone) MayIntersect(lon, lat, boundingRadius float64) bool {
	return c.Distance(lon, lat) <= c.radius+boundingRadius
}

// ContainsCap returns true if the cap of radius boundingRadius around
// (lon, lat) lies entirely inside the cone.
func (c *Cone) ContainsCap(lon, lat, boundingRadius float64) bool {
	return c.Distance(lon, lat)+boundingRadius <= c.radius
}

// ContainsAny returns true if at least one of points lies inside the cone.
func (c *Cone) ContainsAny(points []Coo) bool {
	for i := range points {
		if c.Distance(points[i].Lon, points[i].Lat) <= c.radius {
			return true
		}
	}
	return false
}

// ContainsAll returns true if every point of boundary lies inside the cone.
func (c *Cone) ContainsAll(boundary []Coo) bool {
	return c.ContainsAllWithin(boundary, 0)
}

// ContainsAllWithin returns true if every point of boundary lies at least
// margin inside the edge of the cone.
func (c *Cone) ContainsAllWithin(boundary []Coo, margin float64) bool {
	limit := c.radius - margin
	for i := range boundary {
		if c.Distance(boundary[i].Lon, boundary[i].Lat) > limit {
			return false
		}
	}
	return true
}

// IntersectsBoundary returns true if the closed polyline boundary touches
// the cone, i.e. if one of its points is inside the cone or if the cone's
// center is within Radius of one of its geodesic segments.
func (c *Cone) IntersectsBoundary(boundary []Coo) bool {
	return c.IntersectsBoundaryWithin(boundary, 0)
}

// IntersectsBoundaryWithin is IntersectsBoundary for a cone whose radius
// has been enlarged by margin.
func (c *Cone) IntersectsBoundaryWithin(boundary []Coo, margin float64) bool {
	if len(boundary) == 0 {
		return false
	}
	r := c.radius + margin
	for i := range boundary {
		if c.Distance(boundary[i].Lon, boundary[i].Lat) <= r {
			return true
		}
	}

	limit := s1.Angle(r)
	prev := boundary[len(boundary)-1].Point()
	for i := range boundary {
		p := boundary[i].Point()
		if p != prev && s2.DistanceFromSegment(c.point, prev, p) <= limit {
			return true
		}
		prev = p
	}
	return false
}

// MaxDistance returns the largest angular distance between center and any
// point of boundary.
func MaxDistance(center Coo, boundary []Coo) float64 {
	ll := center.LatLng()
	max := 0.0
	for i := range boundary {
		d := ll.Distance(boundary[i].LatLng()).Radians()
		if d > max {
			max = d
		}
	}
	return max
}

// String implements fmt.Stringer.
func (c *Cone) String() string {
	return fmt.Sprintf("Cone{lon: %g, lat: %g, radius: %g}",
		c.lon, c.lat, c.radius)
}
