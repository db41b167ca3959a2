package cli

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/draft-advisor/internal/advisor"
	"github.com/ramonehamilton/draft-advisor/internal/api"
	"github.com/ramonehamilton/draft-advisor/internal/config"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the advisor REST API",
		Long: `Serve the advisor over HTTP on /api/v1 with a WebSocket event stream on /ws.

When the corpus comes from a battle directory, new or changed battle files
trigger a reload unless --no-watch is given. POST /api/v1/reload reloads on
demand for either source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			return a.serve(cmd.Context(), !noWatch)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when battle files change")
	return cmd
}

func (a *app) serve(parent context.Context, watch bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, release, err := a.openSource()
	if err != nil {
		return err
	}
	defer release()

	catalog, err := a.loadCatalog()
	if err != nil {
		return err
	}

	svc, err := advisor.New(ctx, src, catalog, a.logger)
	if err != nil {
		return err
	}

	server := api.NewServer(&api.Config{
		Port:           a.cfg.Server.Port,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		RateLimit:      a.cfg.Server.RateLimit,
		RateBurst:      a.cfg.Server.RateBurst,
		HeroTunables:   a.cfg.Hero,
		SkillTunables:  a.cfg.Skill,
	}, svc)
	if err := server.Start(); err != nil {
		return err
	}

	if watch && a.cfg.Data.Watch && a.cfg.Data.Source == config.SourceDir {
		debounce, _ := a.cfg.GetDebounce()
		go func() {
			if err := svc.Watch(ctx, a.cfg.Data.BattlesDir, debounce); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[Advisor] Watcher stopped: %v", err)
			}
		}()
	}

	<-ctx.Done()
	log.Println("[Advisor] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
