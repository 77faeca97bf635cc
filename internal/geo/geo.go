package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// EarthRadiusKm is the mean radius used for every distance in the marketplace.
const EarthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between two lat/lon points in degrees.
// Inputs are not validated; NaN in, NaN out.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func ValidCoordinate(lat, lon float64) bool {
	return ValidLatitude(lat) && ValidLongitude(lon)
}

func ValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

func ValidLongitude(lon float64) bool {
	return !math.IsNaN(lon) && lon >= -180 && lon <= 180
}

// SearchBound returns a lat/lon box holding every point within km of the center.
// The box may cross the antimeridian, in which case Min[0] > Max[0]; see CrossesAntimeridian.
func SearchBound(lat, lon, km float64) orb.Bound {
	world := orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

	// orb works on a 6378137 m sphere; scale so the angular radius stays km/EarthRadiusKm.
	angular := km / EarthRadiusKm
	if math.IsNaN(angular) || math.IsInf(angular, 0) || angular >= math.Pi/2 {
		return world
	}

	b := orbgeo.NewBoundAroundPoint(orb.Point{lon, lat}, angular*orb.EarthRadius)
	if math.IsNaN(b.Min[0]) || math.IsNaN(b.Max[0]) {
		return orb.Bound{Min: orb.Point{-180, b.Min[1]}, Max: orb.Point{180, b.Max[1]}}
	}
	return b
}

func CrossesAntimeridian(b orb.Bound) bool {
	return b.Min[0] > b.Max[0]
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
