package endpoints

import (
	"errors"
	"net"
	"net/http"
	"net/netip"

	"github.com/ftddns/ftddns/pkg/updater"
)

// Credentials is the JSON body accepted by the admin-creation and installer
// endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func respond(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func writeOutcome(w http.ResponseWriter, outcome updater.Outcome) {
	switch outcome.Status {
	case updater.StatusOK:
		respond(w, http.StatusOK, outcome.Message)
	case updater.StatusNotAcceptable:
		respond(w, http.StatusNotAcceptable, outcome.Message)
	case updater.StatusServiceUnavailable:
		respond(w, http.StatusServiceUnavailable, outcome.Message)
	default:
		respond(w, http.StatusInternalServerError, "")
	}
}

var errNotIPv4 = errors.New("client address is not IPv4")

// clientIPv4 extracts the caller's IPv4 address. X-Real-IP takes precedence
// so the service works behind a reverse proxy. IPv6 callers are rejected:
// the service only manages A records.
func clientIPv4(r *http.Request) (netip.Addr, error) {
	host := r.Header.Get("X-Real-Ip")
	if host == "" {
		var err error
		host, _, err = net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, err
	}
	if addr.Is4In6() {
		addr = addr.Unmap()
	}
	if !addr.Is4() {
		return netip.Addr{}, errNotIPv4
	}
	return addr, nil
}

// remoteAddr is for log attribution only; it never fails.
func remoteAddr(r *http.Request) string {
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
