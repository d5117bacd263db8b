package main

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// adminOnly guards administrative operations behind the shared secret.
// Mismatch or absence fails the request before any other processing.
func (app *application) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		if app.config.adminSecret == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(app.config.adminSecret)) != 1 {
			writeJSONError(w, http.StatusUnauthorized, "not authorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}
