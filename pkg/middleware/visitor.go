package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/RentalGo/pkg/logger"
)

const defaultVisitorCookie = "rental_visitor"

// VisitorConfig controls the visitor cookie.
type VisitorConfig struct {
	CookieName string
	HashKey    []byte
	// BlockKey enables encryption when set (16, 24 or 32 bytes).
	BlockKey []byte
	MaxAge   time.Duration
	Secure   bool
}

// Visitors issues and reads a signed cookie naming the browser profile that
// owns a slice of the persistent store.
type Visitors struct {
	cfg    VisitorConfig
	codec  *securecookie.SecureCookie
	logger *slog.Logger
}

// NewVisitors validates cfg and builds the cookie codec. A missing hash key is
// replaced with a random one, so ids do not survive a restart.
func NewVisitors(cfg VisitorConfig, l *slog.Logger) (*Visitors, error) {
	if cfg.CookieName == "" {
		cfg.CookieName = defaultVisitorCookie
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 30 * 24 * time.Hour
	}
	if len(cfg.HashKey) == 0 {
		l.Warn("VISITOR_HASH_KEY not set, generating an ephemeral key")
		cfg.HashKey = securecookie.GenerateRandomKey(32)
	}
	switch len(cfg.BlockKey) {
	case 0, 16, 24, 32:
	default:
		return nil, fmt.Errorf("visitor block key must be 16, 24 or 32 bytes, got %d", len(cfg.BlockKey))
	}

	codec := securecookie.New(cfg.HashKey, cfg.BlockKey)
	codec.MaxAge(int(cfg.MaxAge.Seconds()))

	return &Visitors{cfg: cfg, codec: codec, logger: l}, nil
}

// Middleware attaches the visitor id to the request context, issuing a new
// cookie when the request has none or carries one that fails to decode.
func (v *Visitors) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := v.read(r)
		if !ok {
			id = uuid.NewString()
			if err := v.write(w, id); err != nil {
				v.logger.ErrorContext(r.Context(), "issue visitor cookie", slog.String("error", err.Error()))
			}
		}

		trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("rental.visitor_id", id))
		ctx := logger.WithVisitorID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (v *Visitors) read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(v.cfg.CookieName)
	if err != nil {
		return "", false
	}
	var id string
	if err := v.codec.Decode(v.cfg.CookieName, cookie.Value, &id); err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (v *Visitors) write(w http.ResponseWriter, id string) error {
	encoded, err := v.codec.Encode(v.cfg.CookieName, id)
	if err != nil {
		return fmt.Errorf("encode visitor cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     v.cfg.CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(v.cfg.MaxAge.Seconds()),
		Secure:   v.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// VisitorID returns the visitor id attached by Visitors.Middleware.
func VisitorID(r *http.Request) string {
	return logger.VisitorIDFromContext(r.Context())
}
