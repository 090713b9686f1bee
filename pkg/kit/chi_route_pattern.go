package kit

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

func ChiRoutePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if rp := rc.RoutePattern(); rp != "" {
			return rp
		}
	}
	return r.URL.Path
}

// PathParam returns the decoded value of a chi URL parameter. chi routes on
// RawPath when it is set, in which case the captured value is still escaped.
func PathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}
