// Package requestinfo collects per-request metadata for the access log:
// a parsed user-agent fingerprint and best-effort IP geolocation.  The
// structs are inert (no pools, no large buffers) so they are safe to log
// or JSON-encode.
package requestinfo

import (
	"net"
	"net/http"
	"strings"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

// Info is what the access-log middleware emits per request.
type Info struct {
	Browser    string
	OS         string
	Device     string
	IsBot      bool
	IP         net.IP
	CountryISO string
	City       string
}

// geoReader is a process-wide MaxMind handle.  Safe for concurrent reads,
// which is all we ever perform.  Nil when geo enrichment is disabled.
var geoReader *geoip2.Reader

// InitGeo opens the GeoLite2-City database.  Call once from main when
// geo.db_path is configured; leaving it unopened simply disables lookups.
func InitGeo(dbPath string) error {
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoReader = r
	return nil
}

// Collect builds Info from the incoming request.
func Collect(r *http.Request) Info {
	ua := uasurfer.Parse(r.UserAgent())
	ip := clientIP(r)

	info := Info{
		Browser: strings.TrimPrefix(ua.Browser.Name.String(), "Browser"),
		OS:      strings.TrimPrefix(ua.OS.Name.String(), "OS"),
		Device:  deviceString(ua.DeviceType),
		IsBot:   ua.IsBot(),
		IP:      ip,
	}

	if geoReader != nil && ip != nil {
		if rec, err := geoReader.City(ip); err == nil {
			info.CountryISO = rec.Country.IsoCode
			info.City = rec.City.Names["en"]
		}
	}
	return info
}

// clientIP prefers the left-most X-Forwarded-For hop, then X-Real-IP, then
// the socket address.
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip
		}
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		if ip := net.ParseIP(xr); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return net.ParseIP(r.RemoteAddr)
	}
	return net.ParseIP(host)
}

func deviceString(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}
