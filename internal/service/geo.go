package service

import (
	"math"

	"github.com/irecommend-mm/loveconnect-mm-sub001/internal/model"
)

// GeoService handles geographic calculations
type GeoService struct{}

// NewGeoService creates a new geo service
func NewGeoService() *GeoService {
	return &GeoService{}
}

// EarthRadiusKm is the Earth's radius in kilometers
const EarthRadiusKm = 6371.0

// DefaultMaxDistanceKm is the distance at which the location score reaches 0
const DefaultMaxDistanceKm = 50.0

// HaversineDistance calculates the distance between two points in kilometers
// using the Haversine formula (accounts for Earth's curvature)
func (s *GeoService) HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	// rounding can leave a just outside [0, 1] near antipodes
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Distance returns the distance between two points, or -1 when either is unknown
func (s *GeoService) Distance(a, b *model.GeoPoint) float64 {
	if a == nil || b == nil {
		return -1
	}
	return s.HaversineDistance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// GetDistanceBucket returns a privacy-preserving distance bucket
func (s *GeoService) GetDistanceBucket(distanceKm float64) model.DistanceBucket {
	return model.GetDistanceBucket(distanceKm)
}

// LocationScore maps distance onto [0, 1]: 1 at the same point, falling
// linearly to 0 at maxDistanceKm. Unknown locations score 0.5.
func (s *GeoService) LocationScore(a, b *model.GeoPoint, maxDistanceKm float64) float64 {
	if a == nil || b == nil {
		return 0.5
	}
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMaxDistanceKm
	}
	d := s.HaversineDistance(a.Lat, a.Lng, b.Lat, b.Lng)
	if math.IsNaN(d) {
		return 0
	}
	return math.Max(0, 1-d/maxDistanceKm)
}
