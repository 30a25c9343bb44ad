package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Limpan89/storefront/internal/api"
	"github.com/Limpan89/storefront/internal/config"
	"github.com/Limpan89/storefront/internal/session"
	"github.com/Limpan89/storefront/internal/ui"
)

func main() {
	cfg := config.LoadConfig()

	// Logs go to a file; stdout belongs to the UI.
	zerolog.TimeFieldFormat = time.RFC3339
	if dir := filepath.Dir(cfg.LogPath); dir != "." && dir != "" {
		must(os.MkdirAll(dir, 0o755))
	}
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	must(err)
	defer logFile.Close()
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()

	log.Info().
		Str("base_url", cfg.BaseURL).
		Str("db", cfg.DBPath).
		Dur("timeout", cfg.HTTPTimeout).
		Msg("starting storefront")

	db, err := session.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	sess, err := session.New(context.Background(), session.NewStore(db))
	must(err)
	sess.Subscribe(func(userID int64, ok bool) {
		if ok {
			log.Info().Int64("user_id", userID).Msg("session identity set")
		} else {
			log.Info().Msg("session cleared")
		}
	})

	client := api.New(cfg.BaseURL, cfg.HTTPTimeout, log.Logger)

	app := ui.NewApp(ui.Env{Backend: client, Session: sess, Log: log.Logger})
	if _, err := tea.NewProgram(app).Run(); err != nil {
		log.Fatal().Err(err).Msg("ui crashed")
	}
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}
