package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/zarvd/tokencipher/internal/config"
	"github.com/zarvd/tokencipher/internal/logging"
)

type CLI struct {
	Config   string `short:"c" type:"existingfile" env:"TOKENCIPHER_CONFIG" help:"Path to config file"`
	LogLevel string `help:"Override log.level"`

	Encrypt EncryptCmd `cmd:"" help:"Encrypt text with the configured cipher"`
	Decrypt DecryptCmd `cmd:"" help:"Decrypt text with the configured cipher"`
	Issue   IssueCmd   `cmd:"" help:"Issue an encrypted token"`
	Verify  VerifyCmd  `cmd:"" help:"Verify a token and print its envelope"`
	Suites  SuitesCmd  `cmd:"" help:"List supported symmetric cipher suites"`
}

func main() {
	var cli CLI
	cliCtx := kong.Parse(&cli,
		kong.Name("tokencipher"),
		kong.Description("Encrypt data and issue short-lived encrypted tokens."),
		kong.UsageOnError(),
	)

	if err := run(cliCtx, &cli); err != nil {
		if errors.Is(err, errTokenExpired) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cliCtx *kong.Context, cli *CLI) error {
	cliCtx.BindTo(os.Stdin, (*io.Reader)(nil))
	cliCtx.BindTo(os.Stdout, (*io.Writer)(nil))

	// Listing suites needs no key material.
	if cliCtx.Command() == "suites" {
		return cliCtx.Run()
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cliCtx.Bind(cfg, logger)

	if err := cliCtx.Run(); err != nil {
		if !errors.Is(err, errTokenExpired) {
			logger.Error("failed to run command", zap.String("command", cliCtx.Command()), zap.Error(err))
		}
		return err
	}
	return nil
}
