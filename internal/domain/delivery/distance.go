package delivery

import (
	"math"

	"github.com/shopspring/decimal"
)

const earthRadiusKm = 6371.0

// DistanceKm computes the great-circle distance between two points
// using the haversine formula, rounded to three decimal places.
func DistanceKm(fromLat, fromLng, toLat, toLng decimal.Decimal) decimal.Decimal {
	lat1 := toRadians(fromLat)
	lat2 := toRadians(toLat)
	dLat := toRadians(toLat.Sub(fromLat))
	dLng := toRadians(toLng.Sub(fromLng))

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return decimal.NewFromFloat(earthRadiusKm * c).Round(3)
}

func toRadians(deg decimal.Decimal) float64 {
	f, _ := deg.Float64()
	return f * math.Pi / 180
}
