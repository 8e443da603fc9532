package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"pocket-panel/internal/config"
	"pocket-panel/internal/mockapi"
)

// mockapi runs a self-contained stand-in for the trading-bot backend with
// the same wire contract: JWT auth, accounts, strategies, trade simulation
// and the TradingView webhook. State lives in memory.
func main() {
	godotenv.Load()
	cfg := config.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	server := mockapi.NewServer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour, logger)
	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.MockAPIBind, strconv.Itoa(cfg.MockAPIPort)),
		Handler: server.Router(),
	}

	go func() {
		logger.Info("starting mock backend", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced to shutdown", "err", err)
	}
	logger.Info("server exiting")
}
