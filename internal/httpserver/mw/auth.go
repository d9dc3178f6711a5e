package mw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/linkpost/internal/logger"
	"github.com/MrSnakeDoc/linkpost/internal/utils"
)

// BearerAuth requires "Authorization: Bearer <secret>". Anything else gets a
// plain 401 "Unauthorized". An empty secret rejects every request.
func BearerAuth(secret string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	want := []byte("Bearer " + secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(strings.TrimSpace(r.Header.Get("Authorization")))
			if secret == "" || subtle.ConstantTimeCompare(got, want) != 1 {
				log.Warn("unauthorized request - invalid secret",
					logger.String("remote_ip", utils.ClientIP(r, trustProxy)),
					logger.String("path", r.URL.Path))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
