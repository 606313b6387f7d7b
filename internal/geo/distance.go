package geo

import "math"

const earthRadiusKm = 6371

// Distance computes the great-circle distance between two points using the
// haversine formula, floored to whole meters. It returns nil when either
// coordinate is missing: an unknown position is not the same as being
// co-located.
func Distance(lat1, lng1, lat2, lng2 *float64) *int {
	if lat1 == nil || lng1 == nil || lat2 == nil || lng2 == nil {
		return nil
	}

	phi1 := radians(*lat1)
	phi2 := radians(*lat2)
	dPhi := radians(*lat2 - *lat1)
	dLambda := radians(*lng2 - *lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	meters := int(earthRadiusKm * c * 1000)
	return &meters
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
