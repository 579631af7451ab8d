package httpx

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// OriginCheck returns a middleware that rejects mutating cross-site requests
// whose Origin (or Referer, when Origin is absent) resolves to a different
// registrable domain than the request host. This is a coarse outer screen in
// front of the token check: requests without either header pass through, since
// non-browser clients never send them.
func OriginCheck() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresCSRFValidation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			source := r.Header.Get("Origin")
			if source == "" {
				source = r.Header.Get("Referer")
			}
			if source == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !sameRegistrableDomain(source, r.Host) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "cross_origin_rejected",
					Err:     errors.New("request origin does not match this host"),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requiresCSRFValidation returns true if the HTTP method requires CSRF validation.
// Safe methods (GET, HEAD, OPTIONS, TRACE) are exempt.
func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// sameRegistrableDomain compares the eTLD+1 of the source URL against the
// request host. Hosts without a public suffix (localhost, bare IPs) fall back
// to an exact host comparison.
func sameRegistrableDomain(source, requestHost string) bool {
	u, err := url.Parse(source)
	if err != nil || u.Hostname() == "" {
		return false
	}

	srcHost := u.Hostname()
	reqHost := stripPort(requestHost)

	srcDomain, srcErr := publicsuffix.EffectiveTLDPlusOne(srcHost)
	reqDomain, reqErr := publicsuffix.EffectiveTLDPlusOne(reqHost)
	if srcErr != nil || reqErr != nil {
		return strings.EqualFold(srcHost, reqHost)
	}

	return strings.EqualFold(srcDomain, reqDomain)
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
