package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// CachePolicy is the Cache-Control a route group sends on successful reads.
type CachePolicy struct {
	MaxAge time.Duration
	// Private keeps shared caches from storing the response.
	Private bool
	// Vary names request headers the response depends on.
	Vary []string
}

func (p CachePolicy) directive() string {
	scope := "public"
	if p.Private {
		scope = "private"
	}
	return scope + ", max-age=" + strconv.Itoa(int(p.MaxAge/time.Second))
}

// Cacheable applies p to GET and HEAD responses with a 2xx status. Any other
// status is sent with no-store so a failed catalog fetch is never replayed.
func Cacheable(p CachePolicy) func(http.Handler) http.Handler {
	directive := p.directive()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			for _, h := range p.Vary {
				w.Header().Add("Vary", h)
			}
			next.ServeHTTP(&cacheWriter{ResponseWriter: w, directive: directive}, r)
		})
	}
}

// cacheWriter picks the Cache-Control value once the status is known.
type cacheWriter struct {
	http.ResponseWriter
	directive   string
	wroteHeader bool
}

func (cw *cacheWriter) WriteHeader(code int) {
	if !cw.wroteHeader {
		cw.wroteHeader = true
		if code >= 200 && code < 300 {
			cw.Header().Set("Cache-Control", cw.directive)
		} else {
			cw.Header().Set("Cache-Control", "no-store")
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *cacheWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	return cw.ResponseWriter.Write(b)
}

func (cw *cacheWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

// NoStore forbids caching. Pages that read the visitor store use it.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
