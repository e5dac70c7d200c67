// toolhost serves schema-validated text scoring tools over HTTP.
//
// Usage:
//
//	toolhost serve                         # start the HTTP server
//	toolhost tools                         # list registered tools
//	toolhost exec <tool> '{"text":"..."}'  # run one tool locally
//	toolhost validate <schema> [file]      # validate a JSON document
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cortexai/toolhost/internal/config"
	"github.com/cortexai/toolhost/internal/logger"
	"github.com/cortexai/toolhost/internal/schema"
	"github.com/cortexai/toolhost/internal/server"
	"github.com/cortexai/toolhost/internal/service"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "toolhost",
		Short:         "Schema-validated tool gateway",
		Long:          "toolhost registers text scoring tools and exposes each one as a JSON Schema validated HTTP endpoint.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(toolsCmd())
	rootCmd.AddCommand(execCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and configures logging. CLI commands other
// than serve log to stderr so stdout stays machine readable.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	format := cfg.LogFormat
	if cfg.IsProduction() && format == config.DefaultLogFormat {
		format = "json"
	}
	logger.Setup(cfg.LogLevel, format, os.Stderr)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(cfg).Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "listen port (overrides PORT)")
	return cmd
}

func toolsCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			descs := server.Bootstrap(cfg).Registry.Descriptors()

			if outputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(descs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tVERSION\tDESCRIPTION")
			for _, d := range descs {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.Version, d.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "print descriptors as JSON")
	return cmd
}

func execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <tool> [input-json]",
		Short: "Run one tool locally with the same validation as the HTTP endpoint",
		Long:  "Runs a tool through the executor. The input is read from the second argument or, when absent, from stdin.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			input, err := readInput(cmd.InOrStdin(), args[1:])
			if err != nil {
				return err
			}

			out, err := server.Bootstrap(cfg).Executor.Execute(cmd.Context(), args[0], input, service.Caller{})
			if err != nil {
				var f *service.Failure
				if errors.As(err, &f) && f.Details != "" {
					return fmt.Errorf("%s: %s", f.Kind, f.Details)
				}
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema> [file]",
		Short: "Validate a JSON document against a schema in the schemas directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var raw []byte
			if len(args) == 2 {
				raw, err = os.ReadFile(args[1])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			var doc any
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("document is not JSON: %w", err)
			}

			res, err := schema.NewStore(cfg.SchemasPath).Validate(args[0], doc)
			if err != nil {
				return err
			}
			if !res.Valid {
				return fmt.Errorf("invalid: %s", schema.FormatErrors(res.Errors))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "toolhost %s\n", version)
		},
	}
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(args[0]), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return b, nil
}
