package common

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// ClientIP returns the peer address of the request. X-Forwarded-For is only read
// when the peer is one of trustedProxies, and then the rightmost hop outside
// that set is the client.
func ClientIP(r *http.Request, trustedProxies ...*net.IPNet) string {
	remote := remoteHost(r.RemoteAddr)
	if len(trustedProxies) == 0 || !ipInNets(remote, trustedProxies) {
		return remote
	}

	fwd := r.Header.Get("X-Forwarded-For")
	if fwd == "" {
		return remote
	}
	hops := strings.Split(fwd, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if net.ParseIP(hop) == nil {
			// garbage in the header, stop at the last address we could verify
			return remote
		}
		if !ipInNets(hop, trustedProxies) {
			return hop
		}
		remote = hop
	}
	return remote
}

func remoteHost(addr string) string {
	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return ip
}

func ipInNets(raw string, nets []*net.IPNet) bool {
	ip := net.ParseIP(raw)
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
