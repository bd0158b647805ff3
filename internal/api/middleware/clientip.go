package middleware

import (
	"net"

	"github.com/labstack/echo/v4"
)

// ClientIP returns the extractor behind c.RealIP. With no trusted proxies the
// peer address is used and forwarding headers are ignored. Otherwise
// X-Forwarded-For is honoured only for hops inside the trusted ranges.
func ClientIP(trustedProxies []*net.IPNet) echo.IPExtractor {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, r := range trustedProxies {
		opts = append(opts, echo.TrustIPRange(r))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
