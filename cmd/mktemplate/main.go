package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/shopfront/provisioner/cmd/flags"
	"github.com/shopfront/provisioner/tenantdb"
)

func main() {
	app := &cli.App{
		Name:  "mktemplate",
		Usage: "Write the canonical empty-schema tenant database template",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Required: true,
				Usage:    "path to write the template database to",
			},
		}, flags.LoggingFlags...),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)
			out := cCtx.String("out")

			if err := tenantdb.CreateTemplate(cCtx.Context, out); err != nil {
				logger.Error("Failed to create template database", "err", err)
				return err
			}

			logger.Info("Template database created", "path", out)
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
