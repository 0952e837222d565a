package email

import "strings"

// transientMarkers are substrings of SMTP errors worth retrying later:
// provider throughput caps and greylisting-style rejections. Anything
// else (bad address, relay denied, auth) is treated as permanent.
var transientMarkers = []string{
	"too many emails per second",
	"550 5.7.0",
	"rate limit",
}

// IsTransient reports whether err looks like a throttling failure rather
// than a permanently undeliverable message.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
