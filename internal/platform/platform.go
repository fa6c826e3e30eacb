// Package platform classifies requesting clients from their User-Agent header.
package platform

import "strings"

// Platform is the client family a link resolves for.
type Platform string

const (
	Android Platform = "android"
	IOS     Platform = "ios"
	Other   Platform = "other"
)

// iosMarkers are matched case-insensitively; the interstitial script uses the
// same list so that server and client agree.
var iosMarkers = []string{"iphone", "ipad", "ipod"}

// Classify maps a User-Agent string to a Platform. Android is checked first.
// Empty or unrecognised values classify as Other.
func Classify(userAgent string) Platform {
	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "android") {
		return Android
	}
	for _, marker := range iosMarkers {
		if strings.Contains(ua, marker) {
			return IOS
		}
	}
	return Other
}

// IsNative reports whether p has a native app to open.
func (p Platform) IsNative() bool {
	return p == Android || p == IOS
}
