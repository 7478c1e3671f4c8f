package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/shopfront/provisioner/api"
	"github.com/shopfront/provisioner/cmd/flags"
	"github.com/shopfront/provisioner/provisioner"
)

var clientFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "server-addr",
		Value: "http://127.0.0.1:8002",
		Usage: "base URL of the provisioning server",
	},
	&cli.StringFlag{
		Name:  "payload",
		Usage: "JSON file with the provisioning request; '-' reads stdin",
	},
	&cli.StringFlag{
		Name:  "company",
		Usage: "company name (ignored when --payload is given)",
	},
	&cli.StringFlag{
		Name:  "email",
		Usage: "owner email address",
	},
	&cli.StringFlag{
		Name:  "password",
		Usage: "owner password",
	},
	&cli.StringFlag{
		Name:  "login-token",
		Usage: "owner login token",
	},
	&cli.StringFlag{
		Name:  "country-code",
		Usage: "ISO country code",
	},
	&cli.StringFlag{
		Name:  "plan-title",
		Usage: "title of the initial plan",
	},
	&cli.IntFlag{
		Name:  "plan-sell-price",
		Usage: "up-front price of the initial plan",
	},
	&cli.IntFlag{
		Name:  "plan-interval-amount",
		Usage: "recurring price of the initial plan",
	},
	&cli.StringFlag{
		Name:  "plan-interval-unit",
		Value: "monthly",
		Usage: "interval unit of the initial plan (weekly, monthly, yearly)",
	},
}

func main() {
	app := &cli.App{
		Name:  "provision",
		Usage: "Request a new shop from a provisioning server",
		Flags: append(clientFlags, flags.LoggingFlags...),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			req, err := buildRequest(cCtx)
			if err != nil {
				return err
			}

			client := &provisioner.Client{ServerAddr: cCtx.String("server-addr")}
			loginURL, err := client.Provision(req)

			var dup *api.DuplicateSiteError
			if errors.As(err, &dup) {
				logger.Warn("Site already provisioned", "address", dup.Address)
				fmt.Println(dup.Error())
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Println(loginURL)
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildRequest(cCtx *cli.Context) (api.ProvisionRequest, error) {
	var req api.ProvisionRequest

	if payload := cCtx.String("payload"); payload != "" {
		var raw []byte
		var err error
		if payload == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(payload)
		}
		if err != nil {
			return req, fmt.Errorf("could not read payload: %w", err)
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return req, fmt.Errorf("could not parse payload: %w", err)
		}
		return req, nil
	}

	req = api.ProvisionRequest{
		Company:     api.CompanySpec{Name: cCtx.String("company")},
		Users:       []string{cCtx.String("email")},
		Password:    cCtx.String("password"),
		LoginToken:  cCtx.String("login-token"),
		CountryCode: cCtx.String("country-code"),
		Plans: []api.PlanSpec{{
			Title:          cCtx.String("plan-title"),
			SellPrice:      cCtx.Int("plan-sell-price"),
			IntervalAmount: cCtx.Int("plan-interval-amount"),
			IntervalUnit:   cCtx.String("plan-interval-unit"),
		}},
	}
	return req, nil
}
