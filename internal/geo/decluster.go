package geo

import (
	"fmt"
	"math"
)

const (
	// GoldenAngleDeg spreads cluster members so no two land on the same ray
	// no matter how many the cluster grows to.
	GoldenAngleDeg = 137.50776405003785

	// DefaultBaseRadius is the spiral base radius in meters. Scaled by
	// sqrt(cluster size), it separates markers at street zoom while staying
	// far under the distance between genuinely distinct addresses.
	DefaultBaseRadius = 15.0

	// Meters per degree of latitude, near enough everywhere.
	metersPerDegreeLat = 111320.0

	// Coordinates are bucketed at six decimal places (~0.1 m), tight enough
	// that only shared-geocode artifacts collide.
	clusterKeyPrecision = 6
)

// Point is a geographic position keyed back to the caller's record by index.
type Point struct {
	Lat float64
	Lng float64
}

// Decluster finds groups of points sharing (nearly) identical coordinates and
// fans each group out along a golden-angle spiral around the shared position.
// Singleton groups are untouched, which also makes the pass idempotent: once
// spread, points no longer share a bucket.
//
// Clusters are computed from the input snapshot and all new positions applied
// at once; member order within a cluster follows input order, so the result
// is deterministic for a given input ordering.
func Decluster(points []Point, baseRadius float64) []Point {
	if baseRadius <= 0 {
		baseRadius = DefaultBaseRadius
	}

	clusters := make(map[string][]int)
	order := make([]string, 0)
	for i, p := range points {
		key := clusterKey(p.Lat, p.Lng)
		if _, seen := clusters[key]; !seen {
			order = append(order, key)
		}
		clusters[key] = append(clusters[key], i)
	}

	out := make([]Point, len(points))
	copy(out, points)

	for _, key := range order {
		members := clusters[key]
		n := len(members)
		if n < 2 {
			continue
		}

		centroidLat, centroidLng := centroid(points, members)
		radius := baseRadius * math.Sqrt(float64(n))
		for i, idx := range members {
			theta := float64(i) * GoldenAngleDeg * math.Pi / 180
			dNorth := radius * math.Cos(theta)
			dEast := radius * math.Sin(theta)
			out[idx] = Point{
				Lat: centroidLat + dNorth/metersPerDegreeLat,
				Lng: centroidLng + dEast/(metersPerDegreeLat*math.Cos(centroidLat*math.Pi/180)),
			}
		}
	}

	return out
}

func clusterKey(lat, lng float64) string {
	return fmt.Sprintf("%.*f,%.*f", clusterKeyPrecision, lat, clusterKeyPrecision, lng)
}

func centroid(points []Point, members []int) (lat, lng float64) {
	for _, idx := range members {
		lat += points[idx].Lat
		lng += points[idx].Lng
	}
	n := float64(len(members))
	return lat / n, lng / n
}
