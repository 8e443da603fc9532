package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"pocket-panel/internal/api"
	"pocket-panel/internal/bot"
	"pocket-panel/internal/config"
	"pocket-panel/internal/errsink"
	"pocket-panel/internal/resource"
	"pocket-panel/internal/session"
	"pocket-panel/internal/tui"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	logger, closeLog := newLogger()
	defer closeLog()

	client := api.NewClient(cfg.APIBaseURL, time.Duration(cfg.HTTPTimeoutSecs)*time.Second)
	svc := tui.Services{
		Backend:   client,
		Session:   session.NewStore(session.NewFileTokenStorage(cfg.TokenFile), logger),
		Resources: resource.NewSync(cfg.DefaultAsset, logger),
		Bot:       bot.NewController(time.Duration(cfg.ChargingRevertSecs)*time.Second, logger),
		Errors:    errsink.New(),
		Logger:    logger,
	}

	p := tea.NewProgram(tui.NewAppModel(svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "pocket-panel: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes to the file named by PANEL_LOG, since stderr belongs to
// the alternate screen while the program runs. Without PANEL_LOG logs are
// dropped.
func newLogger() (*log.Logger, func()) {
	path := os.Getenv("PANEL_LOG")
	if path == "" {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pocket-panel: could not open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true})
	return logger, func() { f.Close() }
}
