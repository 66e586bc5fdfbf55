package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/docship"
	"github.com/bft-labs/docship/internal/cliconfig"
	"github.com/bft-labs/docship/internal/watch"
	"github.com/bft-labs/docship/pkg/client"
	"github.com/bft-labs/docship/pkg/log"
	"github.com/bft-labs/docship/pkg/secret"
)

// errNotFound makes `get` exit non-zero for a missing record.
var errNotFound = errors.New("not found")

var longHelp = strings.TrimSpace(`
Read, update and insert records of a Frappe-style REST API.

Records are addressed by doctype and name (/api/resource/<doctype>/<name>).
Credentials come from the config file, DOCSHIP_* environment variables or
flags, in increasing order of precedence.
`)

var exampleUsage = strings.TrimSpace(`
  docship get Task TASK-0001
  docship update Task TASK-0001 task.json
  echo '{"subject":"new"}' | docship insert Task -
  docship watch ./documents
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return docship.Version
}

// app carries state shared by all subcommands.
type app struct {
	cfg       cliconfig.Config
	cfgPath   string
	secretArg string
	logger    zerolog.Logger
	client    *client.Client
}

func main() {
	a := &app{cfg: cliconfig.DefaultConfig(), logger: cliconfig.Logger()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := a.rootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errNotFound) {
			a.logger.Error().Err(err).Msg("docship")
		}
		stop()
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "docship",
		Short:             "Read and write documents of a Frappe-style REST API",
		Long:              longHelp,
		Example:           exampleUsage,
		Version:           fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.docship/config.toml)")
	pf.StringVar(&a.cfg.URL, "url", a.cfg.URL, "base URL of the site")
	pf.StringVar(&a.cfg.Key, "key", a.cfg.Key, "API key")
	pf.StringVar(&a.secretArg, "secret", "", "API secret (prefer DOCSHIP_SECRET or the config file)")
	pf.StringVar(&a.cfg.UserAgent, "user-agent", a.cfg.UserAgent, "User-Agent header")
	pf.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(a.getCommand(), a.updateCommand(), a.insertCommand(), a.watchCommand())
	return root
}

// setup loads the config file, then env, then flag overrides, and builds the client.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if a.secretArg != "" {
		a.cfg.Secret = secret.New(a.secretArg)
	}

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger = cliconfig.NewLogger(os.Stderr, a.cfg.LogLevel)
	a.logger.Debug().Interface("config", a.cfg).Msg("configuration")

	opts := []client.Option{client.WithLogger(log.NewZerologAdapterWithLogger(a.logger))}
	if a.cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(a.cfg.UserAgent))
	} else {
		opts = append(opts, client.WithUserAgent("docship/"+getVersion()))
	}
	a.client = client.New(a.cfg.Settings(), opts...)
	return nil
}

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <doctype> <name>",
		Short: "Print a document as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc json.RawMessage
			found, err := a.client.Get(cmd.Context(), args[0], args[1], &doc)
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s not found\n", args[0], args[1])
				return errNotFound
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func (a *app) updateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <doctype> <name> [file|-]",
		Short: "Update a document from a JSON file or stdin",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.InOrStdin(), optionalArg(args, 2))
			if err != nil {
				return err
			}
			return a.client.Update(cmd.Context(), args[0], args[1], doc)
		},
	}
}

func (a *app) insertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <doctype> [file|-]",
		Short: "Insert a document from a JSON file or stdin",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.InOrStdin(), optionalArg(args, 1))
			if err != nil {
				return err
			}
			return a.client.Insert(cmd.Context(), args[0], doc)
		},
	}
}

func (a *app) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Push <dir>/<doctype>/<name>.json files whenever they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := watch.New(watch.Config{
				Dir:      args[0],
				Debounce: a.cfg.Debounce,
				Logger:   log.NewZerologAdapterWithLogger(a.logger),
			}, a.client)
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&a.cfg.Debounce, "debounce", a.cfg.Debounce, "delay after a change before pushing")
	return cmd
}

func optionalArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return "-"
}

// readDocument reads a JSON document from path, or from stdin when path is "-".
func readDocument(stdin io.Reader, path string) (json.RawMessage, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("read document: %s is not valid JSON", describe(path))
	}
	return json.RawMessage(b), nil
}

func describe(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

func printJSON(w io.Writer, doc json.RawMessage) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
