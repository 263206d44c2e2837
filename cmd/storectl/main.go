// storectl is a headless driver for the customer core: it boots the session
// and cart managers the way the portal does on startup, then runs a single
// command against them. Useful for smoke-testing a deployment and for
// operating kiosk installs that have no browser frontend.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rs/zerolog"

	"github.com/maktaba/customer-core/internal/core/ports"
	"github.com/maktaba/customer-core/internal/core/service"
	"github.com/maktaba/customer-core/internal/infrastructure/codec"
	"github.com/maktaba/customer-core/internal/infrastructure/config"
	"github.com/maktaba/customer-core/internal/infrastructure/storage"
	"github.com/maktaba/customer-core/internal/infrastructure/transport"
	"github.com/maktaba/customer-core/pkg/logger"
)

const usage = `usage: storectl <command> [flags]

commands:
  login       --email --password
  register    --email --password --name [--phone]
  logout
  whoami
  refresh
  cart add    <product-id> [--qty N]
  cart set    <product-id> --qty N
  cart remove <product-id>
  cart list
  cart clear
  cart sync
`

func main() {
	cfg := config.Load(slog.Default())
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	store, err := buildStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("durable store init failed")
	}

	authTransport := transport.New(cfg.Services.AuthURL, cfg.HTTPTimeout, log)
	catalogTransport := transport.New(cfg.Services.CatalogURL, cfg.HTTPTimeout, log)
	cartTransport := transport.New(cfg.Services.CartURL, cfg.HTTPTimeout, log)

	session := service.NewSessionManager(authTransport, store, codec.NewJWTCodec(), logNavigator{log}, log)
	cart := service.NewCartManager(cartTransport, store, session, log)

	ctx := context.Background()
	service.Bootstrap(ctx, session, cart)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	app := &cli{ctx: ctx, session: session, cart: cart, catalog: catalogTransport}
	if err := app.run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// buildStore selects the durable store backend from configuration.
func buildStore(cfg *config.Config, log zerolog.Logger) (ports.DurableStore, error) {
	switch cfg.Storage.Backend {
	case "file":
		return storage.NewFileStore(cfg.Storage.Path, log), nil
	case "redis":
		client, err := storage.Connect(context.Background(), storage.RedisConfig{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStore(client, log), nil
	case "memory":
		return storage.NewMemoryStore(), nil
	case "none":
		return storage.NoopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// logNavigator satisfies the routing collaborator for a process that has no
// pages to navigate: it records where the portal would have gone.
type logNavigator struct {
	log zerolog.Logger
}

func (n logNavigator) To(path string) {
	n.log.Info().Str("path", path).Msg("navigate")
}
