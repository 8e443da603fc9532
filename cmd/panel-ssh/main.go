package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"

	"pocket-panel/internal/api"
	"pocket-panel/internal/bot"
	"pocket-panel/internal/config"
	"pocket-panel/internal/errsink"
	"pocket-panel/internal/resource"
	"pocket-panel/internal/session"
	"pocket-panel/internal/tui"
)

// panel-ssh serves the panel over SSH. Every connection gets its own
// session stack with in-memory token storage, so users authenticate fresh
// each time and nothing leaks between connections.
func main() {
	godotenv.Load()
	cfg := config.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	s, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.SSHBind, strconv.Itoa(cfg.SSHPort))),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithMiddleware(
			bm.Middleware(teaHandler(cfg, logger)),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
	if err != nil {
		logger.Fatal("could not create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("starting SSH server", "bind", cfg.SSHBind, "port", cfg.SSHPort)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Error("could not start server", "err", err)
			done <- nil
		}
	}()

	<-done
	logger.Info("stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		logger.Error("could not stop server", "err", err)
	}
}

func teaHandler(cfg *config.Config, logger *log.Logger) bm.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		client := api.NewClient(cfg.APIBaseURL, time.Duration(cfg.HTTPTimeoutSecs)*time.Second)
		svc := tui.Services{
			Backend:   client,
			Session:   session.NewStore(session.NewMemoryTokenStorage(""), logger),
			Resources: resource.NewSync(cfg.DefaultAsset, logger),
			Bot:       bot.NewController(time.Duration(cfg.ChargingRevertSecs)*time.Second, logger),
			Errors:    errsink.New(),
			Logger:    logger.With("user", sess.User()),
		}
		return tui.NewAppModel(svc), []tea.ProgramOption{tea.WithAltScreen()}
	}
}
