// Package main provides a command-line host for the Paubox connector. It
// runs an operation over items read from a YAML or JSON file, checks
// credentials, and issues bearer tokens for the API server.
//
// Usage:
//
//	paubox run -op send -items items.yaml -continue-on-fail
//	paubox run -op getDisposition -items receipts.json
//	paubox verify
//	paubox token -subject my-workflow -ttl 24h
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sungwon/paubox-connector/internal/auth"
	"github.com/sungwon/paubox-connector/internal/config"
	"github.com/sungwon/paubox-connector/internal/credentials"
	"github.com/sungwon/paubox-connector/internal/dispatcher"
	"github.com/sungwon/paubox-connector/internal/logger"
	"github.com/sungwon/paubox-connector/internal/params"
	"github.com/sungwon/paubox-connector/internal/paubox"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: paubox <run|verify|token> [flags]")
	fmt.Fprintln(os.Stderr, "  run     run an operation over items from a file")
	fmt.Fprintln(os.Stderr, "  verify  check the configured credentials against the API")
	fmt.Fprintln(os.Stderr, "  token   issue a bearer token for the API server")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "run":
		err = runCommand(ctx, os.Args[2:], os.Stdout)
	case "verify":
		err = verifyCommand(ctx, os.Args[2:])
	case "token":
		err = tokenCommand(os.Args[2:], os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads config and builds a logger that writes to stderr unless a
// file output is configured.
func setup(configDir string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if cfg.Logging.Output != "file" {
		cfg.Logging.Output = "stderr"
	}
	return cfg, logger.NewFromConfig(cfg.Logging), nil
}

func newClient(cfg *config.Config) (*paubox.Client, error) {
	creds := credentials.FromConfig(cfg.Paubox)
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return paubox.NewClient(creds, paubox.NewHTTPClient(cfg.Paubox.Timeout)), nil
}

func runCommand(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configDir := fs.String("config", "config", "directory containing config.yaml")
	op := fs.String("op", string(dispatcher.OperationSend), "operation: send or getDisposition")
	itemsPath := fs.String("items", "", "YAML or JSON file with a list of item parameter maps (- for stdin)")
	continueOnFail := fs.Bool("continue-on-fail", false, "record failed items as error outputs instead of stopping")
	fs.Parse(args)

	if *itemsPath == "" {
		return fmt.Errorf("-items is required")
	}

	cfg, log, err := setup(*configDir)
	if err != nil {
		return err
	}
	operation, err := dispatcher.ParseOperation(*op)
	if err != nil {
		return err
	}
	items, err := loadItems(*itemsPath)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx = logger.WithCorrelationID(ctx, logger.NewCorrelationID())
	outputs, runErr := dispatcher.New(client, log).Execute(ctx, dispatcher.Execution{
		Operation:      operation,
		Items:          items,
		ContinueOnFail: *continueOnFail || cfg.Execution.ContinueOnFail,
	})

	if err := writeOutputs(stdout, outputs); err != nil {
		return err
	}
	if runErr != nil {
		if idx, ok := dispatcher.ItemIndex(runErr); ok {
			return fmt.Errorf("item %d: %w", idx, runErr)
		}
		return runErr
	}
	return nil
}

func verifyCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	configDir := fs.String("config", "config", "directory containing config.yaml")
	fs.Parse(args)

	cfg, log, err := setup(*configDir)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	if err := client.CheckCredentials(ctx); err != nil {
		return err
	}
	log.Info().Str("account", client.Credentials().AccountID).Msg("credentials accepted")
	return nil
}

func tokenCommand(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	configDir := fs.String("config", "config", "directory containing config.yaml")
	subject := fs.String("subject", "", "token subject, e.g. the calling workflow")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	fs.Parse(args)

	if *subject == "" {
		return fmt.Errorf("-subject is required")
	}
	cfg, _, err := setup(*configDir)
	if err != nil {
		return err
	}
	token, err := auth.NewJWTService(cfg.Auth).GenerateToken(*subject, *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}

// loadItems reads a list of parameter maps. JSON input is accepted since
// it is valid YAML.
func loadItems(path string) ([]params.Parameters, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return parseItems(data)
}

func parseItems(data []byte) ([]params.Parameters, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	items := make([]params.Parameters, len(raw))
	for i, m := range raw {
		if m == nil {
			m = map[string]any{}
		}
		items[i] = params.Parameters(m)
	}
	return items, nil
}

func writeOutputs(w io.Writer, outputs []dispatcher.Output) error {
	if outputs == nil {
		outputs = []dispatcher.Output{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(outputs)
}
