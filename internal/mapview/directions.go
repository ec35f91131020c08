package mapview

import (
	"math"
	"strconv"
	"strings"
)

// DirectionsURL builds an external navigation deep link for the destination.
// Apple mobile platforms get the Apple Maps scheme, everything else the
// Google Maps web scheme. Missing or non-finite coordinates yield ok=false
// and no URL at all.
func DirectionsURL(lat, lng *float64, userAgent string) (string, bool) {
	if lat == nil || lng == nil {
		return "", false
	}
	if !finite(*lat) || !finite(*lng) {
		return "", false
	}

	dest := strconv.FormatFloat(*lat, 'f', -1, 64) + "," + strconv.FormatFloat(*lng, 'f', -1, 64)
	if isApplePlatform(userAgent) {
		return "http://maps.apple.com/?daddr=" + dest, true
	}
	return "https://www.google.com/maps/dir/?api=1&destination=" + dest, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isApplePlatform(userAgent string) bool {
	for _, marker := range []string{"iPhone", "iPad", "iPod"} {
		if strings.Contains(userAgent, marker) {
			return true
		}
	}
	return false
}
