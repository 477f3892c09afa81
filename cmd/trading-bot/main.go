// Command trading-bot serves the order gateway API against the Binance
// USDT-M Futures Testnet.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gownikranthi/Trading-Bot/internal/api"
	"github.com/gownikranthi/Trading-Bot/internal/exchange"
	"github.com/gownikranthi/Trading-Bot/internal/gateway"
	"github.com/gownikranthi/Trading-Bot/internal/rationale"
	"github.com/gownikranthi/Trading-Bot/internal/strategy"
	"github.com/gownikranthi/Trading-Bot/pkg/config"
	"github.com/gownikranthi/Trading-Bot/pkg/logging"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Console:    true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ex := exchange.NewBinance(exchange.Config{
		APIKey:    cfg.BinanceAPIKey,
		APISecret: cfg.BinanceAPISecret,
		Testnet:   cfg.BinanceTestnet,
	})

	// Bad credentials must kill the process here, not surface at the first
	// order submission.
	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = ex.VerifyCredentials(verifyCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("binance credential check failed")
	}

	gw := gateway.New(ex, log)
	exec := strategy.NewExecutor(gw, cfg.DefaultTimeInForce, log)
	gen := rationale.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, log)

	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(ex, gw, exec, gen, api.SystemMeta{
		Venue:   "binance-usdt-futures",
		Testnet: cfg.BinanceTestnet,
		Symbols: cfg.Symbols,
		Model:   cfg.OpenAIModel,
		Version: version,
	}, log)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router,
		// Request contexts derive from ctx so shutdown cancels in-flight
		// strategy sequences between slices.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("port", cfg.Port).
		Bool("testnet", cfg.BinanceTestnet).
		Str("version", version).
		Msg("trading bot listening")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
}
