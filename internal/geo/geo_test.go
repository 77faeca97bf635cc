package geo

import (
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		delta                  float64
	}{
		{name: "same point", lat1: 12.9716, lon1: 77.5946, lat2: 12.9716, lon2: 77.5946, want: 0, delta: 1e-9},
		{name: "bangalore short hop", lat1: 12.9716, lon1: 77.5946, lat2: 13.0, lon2: 77.6, want: 3.2117, delta: 0.001},
		{name: "bangalore north", lat1: 12.9716, lon1: 77.5946, lat2: 13.5, lon2: 77.6, want: 58.7583, delta: 0.001},
		{name: "london to new york", lat1: 51.5007, lon1: -0.1246, lat2: 40.6892, lon2: -74.0445, want: 5574.84, delta: 0.01},
		{name: "across the antimeridian", lat1: 0, lon1: 179.9, lat2: 0, lon2: -179.9, want: 22.239, delta: 0.001},
		{name: "antipodal", lat1: 0, lon1: 0, lat2: 0, lon2: 180, want: math.Pi * EarthRadiusKm, delta: 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.delta)
		})
	}
}

func TestDistanceKmProperties(t *testing.T) {
	t.Parallel()

	for range 200 {
		lat1, lon1 := gofakeit.Latitude(), gofakeit.Longitude()
		lat2, lon2 := gofakeit.Latitude(), gofakeit.Longitude()

		d := DistanceKm(lat1, lon1, lat2, lon2)
		require.GreaterOrEqual(t, d, 0.0)
		require.LessOrEqual(t, d, math.Pi*EarthRadiusKm+1e-9)
		require.InDelta(t, d, DistanceKm(lat2, lon2, lat1, lon1), 1e-9)
		require.InDelta(t, 0, DistanceKm(lat1, lon1, lat1, lon1), 1e-9)
	}
}

func TestDistanceKmNaN(t *testing.T) {
	t.Parallel()

	assert.True(t, math.IsNaN(DistanceKm(math.NaN(), 0, 0, 0)))
}

func TestValidCoordinate(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidCoordinate(90, 180))
	assert.True(t, ValidCoordinate(-90, -180))
	assert.False(t, ValidCoordinate(90.0001, 0))
	assert.False(t, ValidCoordinate(0, -180.5))
	assert.False(t, ValidCoordinate(math.NaN(), 0))
}

func TestSearchBoundContainsRadius(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lat, lon float64
		km       float64
	}{
		{name: "bangalore 50km", lat: 12.9716, lon: 77.5946, km: 50},
		{name: "oslo 120km", lat: 59.9139, lon: 10.7522, km: 120},
		{name: "fiji near antimeridian", lat: -17.7134, lon: 179.9, km: 80},
		{name: "southern chile", lat: -53.1638, lon: -70.9171, km: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := SearchBound(tt.lat, tt.lon, tt.km)

			// Points right at the radius on the four bearings must land inside the box.
			for _, bearing := range []float64{0, 90, 180, 270} {
				p := destination(tt.lat, tt.lon, bearing, tt.km*0.999)
				assert.True(t, inBound(b, p), "bearing %v point %v outside %v", bearing, p, b)
			}
		})
	}
}

func TestSearchBoundAntimeridian(t *testing.T) {
	t.Parallel()

	b := SearchBound(0, 179.9, 50)
	assert.True(t, CrossesAntimeridian(b))
	assert.True(t, inBound(b, orb.Point{-179.9, 0}))
	assert.False(t, inBound(b, orb.Point{0, 0}))
}

func TestSearchBoundHugeRadius(t *testing.T) {
	t.Parallel()

	b := SearchBound(10, 10, 30000)
	assert.Equal(t, orb.Point{-180, -90}, b.Min)
	assert.Equal(t, orb.Point{180, 90}, b.Max)
}

func inBound(b orb.Bound, p orb.Point) bool {
	if p[1] < b.Min[1] || p[1] > b.Max[1] {
		return false
	}
	if CrossesAntimeridian(b) {
		return p[0] >= b.Min[0] || p[0] <= b.Max[0]
	}
	return p[0] >= b.Min[0] && p[0] <= b.Max[0]
}

// destination walks km along bearing on the EarthRadiusKm sphere.
func destination(lat, lon, bearingDeg, km float64) orb.Point {
	phi1 := toRadians(lat)
	lambda1 := toRadians(lon)
	theta := toRadians(bearingDeg)
	delta := km / EarthRadiusKm

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2),
	)

	lonDeg := math.Mod(lambda2*180/math.Pi+540, 360) - 180
	return orb.Point{lonDeg, phi2 * 180 / math.Pi}
}
