package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sindrilabs/respfail/pkg/clientmodels"
	"github.com/sindrilabs/respfail/pkg/httpclient"
	"github.com/urfave/cli/v2"
)

// errUnexpectedResponse is returned after a non-2xx response has already been
// written to stdout.
var errUnexpectedResponse = errors.New("unexpected response")

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "respfail"
	app.Usage = "Perform an HTTP call and describe unexpected responses"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Commands = []*cli.Command{
		fetchCommand(),
	}
	return app
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := newApp(stdout, stderr).RunContext(ctx, args); err != nil {
		if !errors.Is(err, errUnexpectedResponse) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a URL and print the body, or the error for a non-2xx response",
		ArgsUsage: "URL",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "method",
				Aliases: []string{"X"},
				Value:   DefaultMethod,
				Usage:   "HTTP method",
			},
			&cli.StringSliceFlag{
				Name:    "header",
				Aliases: []string{"H"},
				Usage:   "request header as `KEY:VALUE`, may be repeated",
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "JSON request body",
			},
			&cli.Int64Flag{
				Name:    "max-body-size",
				Value:   httpclient.DefaultMaxBodySize,
				EnvVars: []string{"RESPFAIL_MAX_BODY_SIZE"},
				Usage:   "bytes of an error body to keep, 0 for the default",
			},
			&cli.IntFlag{
				Name:    "timeout",
				Value:   DefaultRequestTimeoutSeconds,
				EnvVars: []string{"RESPFAIL_TIMEOUT"},
				Usage:   "request timeout in seconds",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print errors as a JSON envelope",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   DefaultLogLevel,
				EnvVars: []string{"RESPFAIL_LOG_LEVEL"},
				Usage:   "one of debug, info, warn, error",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := defaultConfig()
			cfg.URL = c.Args().First()
			cfg.Method = strings.ToUpper(c.String("method"))
			cfg.Headers = c.StringSlice("header")
			cfg.MaxBodySize = c.Int64("max-body-size")
			cfg.RequestTimeoutSeconds = c.Int("timeout")
			cfg.LogLevel = c.String("log-level")
			cfg.JSON = c.Bool("json")
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(cfg.LogLevel, c.App.ErrWriter)
			defer func() { _ = logger.Sync() }()
			slogger := logger.Sugar()

			request := httpclient.HttpRequest{
				Client:           &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second},
				Logger:           slogger,
				Method:           cfg.Method,
				URL:              cfg.URL,
				Headers:          cfg.HeaderMap(),
				MaxErrorBodySize: cfg.MaxBodySize,
			}

			var payload any
			if data := c.String("data"); data != "" {
				payload = json.RawMessage(data)
			}

			response, err := request.Exec(c.Context, payload, nil)
			if err != nil {
				var respErr *httpclient.ResponseError
				if !errors.As(err, &respErr) {
					return err
				}
				if err := printResponseError(c.App.Writer, respErr, cfg.JSON); err != nil {
					return err
				}
				return errUnexpectedResponse
			}
			defer response.Body.Close()

			if _, err := io.Copy(c.App.Writer, response.Body); err != nil {
				return fmt.Errorf("failed to read response body: %w", err)
			}
			return nil
		},
	}
}

// printResponseError writes respErr as text or as a JSON envelope. Exec has
// already logged it, so the envelope is built without a logger.
func printResponseError(w io.Writer, respErr *httpclient.ResponseError, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, respErr.Error())
		return err
	}
	return json.NewEncoder(w).Encode(clientmodels.NewClientError(respErr, nil))
}
