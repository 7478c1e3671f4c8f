package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/shopfront/provisioner/cmd/flags"
	"github.com/shopfront/provisioner/httpserver"
	"github.com/shopfront/provisioner/provisioner"
	"github.com/shopfront/provisioner/settings"
	"github.com/shopfront/provisioner/site"
)

var serverFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "listen-addr",
		Value: "127.0.0.1:8002",
		Usage: "address to listen on for the provisioning API",
	},
	&cli.StringFlag{
		Name:  "metrics-addr",
		Value: "127.0.0.1:8090",
		Usage: "address to listen on for Prometheus metrics",
	},
	&cli.StringFlag{
		Name:    "sites-root",
		EnvVars: []string{"SITES_DIRECTORY"},
		Usage:   "directory tenant sites are allocated under",
	},
	&cli.StringFlag{
		Name:    "domain",
		EnvVars: []string{"SHOP_DOMAIN"},
		Usage:   "domain suffix for tenant addresses",
	},
	&cli.StringFlag{
		Name:    "template-db",
		EnvVars: []string{"TEMPLATE_DB_PATH"},
		Usage:   "canonical empty-schema database file",
	},
	&cli.StringFlag{
		Name:    "routing-skeleton",
		EnvVars: []string{"ROUTING_SKELETON_PATH"},
		Usage:   "routing skeleton template file",
	},
	&cli.StringFlag{
		Name:    "router-socket",
		Value:   "/tmp/sock2",
		EnvVars: []string{"ROUTER_SOCKET"},
		Usage:   "backend socket tenant routes point at",
	},
	&cli.StringFlag{
		Name:    "app-env-dir",
		EnvVars: []string{"APP_ENV_DIRECTORY"},
		Usage:   "runtime environment directory substituted into routing fragments",
	},
	&cli.StringFlag{
		Name:    "app-repo-dir",
		EnvVars: []string{"SHOP_REPO_DIRECTORY"},
		Usage:   "shared application install directory",
	},
	&cli.StringFlag{
		Name:    "entry-point",
		EnvVars: []string{"APP_ENTRY_POINT"},
		Usage:   "application entry-point file substituted into routing fragments",
	},
	&cli.StringFlag{
		Name:  "env-file",
		Value: ".env",
		Usage: "dotenv file with the process-wide tenant settings defaults",
	},
	&cli.BoolFlag{
		Name:  "pprof",
		Value: false,
		Usage: "enable pprof debug endpoint",
	},
	&cli.Int64Flag{
		Name:  "drain-seconds",
		Value: 45,
		Usage: "seconds to wait in drain HTTP request",
	},
}

func main() {
	app := &cli.App{
		Name:  "shop-provisioner",
		Usage: "Provision multi-tenant shop instances over HTTP",
		Flags: append(serverFlags, flags.LoggingFlags...),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			// Best effort: the defaults may also come from the real
			// environment.
			if err := godotenv.Load(cCtx.String("env-file")); err != nil {
				logger.Debug("No dotenv file loaded", "err", err)
			}

			cfg := &provisioner.Config{
				SitesRoot:      cCtx.String("sites-root"),
				Domain:         cCtx.String("domain"),
				TemplateDBPath: cCtx.String("template-db"),
				SkeletonPath:   cCtx.String("routing-skeleton"),
				RouterSocket:   cCtx.String("router-socket"),
				AppEnvDir:      cCtx.String("app-env-dir"),
				AppRepoDir:     cCtx.String("app-repo-dir"),
				EntryPoint:     cCtx.String("entry-point"),
				Defaults:       settings.DefaultsFromEnv(),
			}
			if cfg.SitesRoot == "" || cfg.Domain == "" {
				logger.Error("sites-root and domain are required")
				return cli.Exit("sites-root and domain are required", 1)
			}

			logger.Info("Provisioner configured",
				"sitesRoot", cfg.SitesRoot,
				"domain", cfg.Domain,
				"supportedCountries", len(site.SupportedCountries()))

			prov := provisioner.New(cfg, logger)
			handler := provisioner.NewHandler(prov, logger)

			srv, err := httpserver.New(flags.ConfigureServer(cCtx, logger), handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			srv.RunInBackground()
			<-exit

			srv.Shutdown()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
