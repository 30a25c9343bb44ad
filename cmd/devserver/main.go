// devserver runs the in-memory backend fake on a local port so the
// storefront can be used without the real service.
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Limpan89/storefront/internal/apitest"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	addr := getenv("DEVSERVER_ADDR", ":8080")

	backend := apitest.New()
	backend.SeedProduct(1, "Mechanical Keyboard", "Tenkeyless, brown switches", "89.99", 12)
	backend.SeedProduct(2, "Mouse Pad", "900x400mm cloth", "9.50", 40)
	backend.SeedProduct(3, "USB-C Hub", "7 ports", "34.00", 0)
	backend.SeedProduct(4, "Webcam", "1080p60", "59.95", 7)

	handler := cors.AllowAll().Handler(requestLog(backend.Handler()))

	log.Info().Str("addr", addr).Msg("devserver listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal().Err(err).Msg("devserver stopped")
	}
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
