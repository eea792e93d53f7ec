// Package device names the client a session is issued to.
package device

import (
	"net/http"
	"strings"

	"github.com/mileusna/useragent"
)

const (
	HeaderDeviceName = "X-Device-Name"
	Unknown          = "unknown"
)

// Label prefers an explicit X-Device-Name header and otherwise derives
// "<browser> on <os>" from the User-Agent.
func Label(r *http.Request) string {
	if name := strings.TrimSpace(r.Header.Get(HeaderDeviceName)); name != "" {
		return name
	}
	return FromUserAgent(r.UserAgent())
}

func FromUserAgent(userAgentString string) string {
	if strings.TrimSpace(userAgentString) == "" {
		return Unknown
	}

	ua := useragent.Parse(userAgentString)

	switch {
	case ua.Name != "" && ua.OS != "":
		return ua.Name + " on " + ua.OS
	case ua.Name != "":
		return ua.Name
	case ua.OS != "":
		return ua.OS
	default:
		return Unknown
	}
}
