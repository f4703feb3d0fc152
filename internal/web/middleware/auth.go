package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/csv2sendy/internal/config"
	"github.com/JonMunkholm/csv2sendy/internal/core"
	"github.com/JonMunkholm/csv2sendy/internal/logging"
)

var (
	errMissingKey = errors.New("missing api key")
	errInvalidKey = errors.New("invalid api key")
)

// APIKeyAuth checks the X-API-Key header against the configured keys when
// RequireAPIKey is set. With no keys configured every request is rejected.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	keys := make([][]byte, len(cfg.APIKeys))
	for i, k := range cfg.APIKeys {
		keys[i] = []byte(k)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			switch {
			case key == "":
				deny(w, r, errMissingKey, http.StatusUnauthorized)
			case !isValidAPIKey([]byte(key), keys):
				deny(w, r, errInvalidKey, http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, err error, status int) {
	logging.FromContext(r.Context()).Warn("auth: "+err.Error(),
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
	)

	msg := core.MapError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   err.Error(),
		"message": msg.Message,
		"action":  msg.Action,
		"code":    msg.Code,
	})
}

// isValidAPIKey compares key against every configured key in constant time,
// so the time taken does not depend on which key matched.
func isValidAPIKey(key []byte, valid [][]byte) bool {
	ok := 0
	for _, v := range valid {
		ok |= subtle.ConstantTimeCompare(key, v)
	}
	return ok == 1
}
