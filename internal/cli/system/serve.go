package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habyss/internal/api"
	"github.com/julianstephens/habyss/internal/cli"
	"github.com/julianstephens/habyss/internal/keyring"
	"github.com/julianstephens/habyss/internal/logger"
)

// ServeCmd exposes the store over the JSON API until interrupted.
type ServeCmd struct {
	Addr    string   `help:"Listen address (defaults to HABYSS_HTTP_ADDR)."`
	Origins []string `help:"Allowed CORS origins." default:"*"`
}

func (cmd *ServeCmd) Run(ctx *cli.Context) error {
	tr, err := ctx.Tracker()
	if err != nil {
		return err
	}

	opts := api.Options{
		Addr:           cmd.Addr,
		AllowedOrigins: cmd.Origins,
	}
	if cfg := ctx.Config; cfg != nil {
		if opts.Addr == "" {
			opts.Addr = cfg.HTTPAddr
		}
		opts.RateLimit = cfg.RateLimit
		opts.RateBurst = cfg.RateBurst
		opts.WindowDays = cfg.ConsistencyWindow
		opts.MetricsUser = cfg.MetricsUser
		opts.MetricsPass = cfg.MetricsPass
		opts.TrustProxy = cfg.TrustProxy
	}
	if opts.MetricsUser != "" && opts.MetricsPass == "" {
		pass, err := keyring.Lookup(keyring.KeyMetricsPassword)
		if err != nil {
			logger.Warn("Could not read metrics password from keyring", "error", err)
		}
		opts.MetricsPass = pass
	}
	if opts.MetricsUser == "" || opts.MetricsPass == "" {
		logger.Warn("Serving /metrics without authentication")
		opts.MetricsUser, opts.MetricsPass = "", ""
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.New(ctx.Store, tr, opts)
	fmt.Printf("Serving habyss API on http://%s (Ctrl+C to stop)\n", opts.Addr)
	if err := srv.ListenAndServe(sigCtx); err != nil {
		return err
	}
	fmt.Println("Server stopped")
	return nil
}
