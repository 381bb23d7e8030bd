package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/nanodoc/nanodoc/blob"
	"github.com/arthur-debert/nanodoc/nanodoc/collection"
	"github.com/arthur-debert/nanodoc/nanodoc/ids"
)

// globalKeys are the persistent flags mirrored into viper.
var globalKeys = []string{
	"collection", "backend", "data", "autocreate",
	"id-format", "format", "log-level", "verbose",
}

// CLI is the viper-driven nanodoc command line.
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper
	out       io.Writer
	errOut    io.Writer
	logger    *slog.Logger
	closeLog  func() error
}

// NewCLI creates the command tree. Results go to out, verbose logs to errOut.
func NewCLI(out, errOut io.Writer) *CLI {
	cli := &CLI{
		viperInst: viper.New(),
		out:       out,
		errOut:    errOut,
		logger:    slog.New(slog.DiscardHandler),
	}

	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCollectionCommands()
	cli.addDocumentCommands()
	cli.addQueryCommand()

	return cli
}

// setupViperConfig configures Viper with environment variables and config files
func (cli *CLI) setupViperConfig() {
	if configFile := os.Getenv("NANODOC_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		cli.viperInst.SetConfigName("nanodoc")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.nanodoc")
		cli.viperInst.AddConfigPath("/etc/nanodoc")
	}

	cli.viperInst.AutomaticEnv()
	cli.viperInst.SetEnvPrefix("NANODOC")
	// --id-format -> NANODOC_ID_FORMAT
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cli.viperInst.SetDefault("backend", blob.BackendFile)
	cli.viperInst.SetDefault("id-format", ids.FormatUUID)
	cli.viperInst.SetDefault("format", formatJSON)
	cli.viperInst.SetDefault("log-level", "warn")

	// A missing config file is fine; flags and env still apply.
	_ = cli.viperInst.ReadInConfig()
}

// createRootCommand creates the root Cobra command with Viper integration
func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "nanodoc",
		Short: "nanodoc - single-file JSON document collections",
		Long: `nanodoc stores a collection of JSON documents as one JSON object,
keyed by document id, in a single file (or a SQLite / Pebble blob).

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (NANODOC_*)
3. Configuration file (NANODOC_CONFIG, or nanodoc.yaml / nanodoc.json in
   ., ~/.nanodoc, /etc/nanodoc)

Examples:
  nanodoc -c tasks.json collection create
  nanodoc -c tasks.json doc create '{"title": "write docs", "done": false}'
  nanodoc -c tasks.json query --where done=false
  nanodoc -c tasks.json query --expr 'doc.title.startsWith("write")'

  export NANODOC_COLLECTION=tasks.json NANODOC_FORMAT=yaml
  nanodoc doc list`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := initLogging(
				cli.viperInst.GetString("log-level"),
				cli.viperInst.GetBool("verbose"),
				cli.errOut,
			)
			if err != nil {
				return NewConfigError("initialize logging", err.Error(), CommonSuggestions.CheckConfig)
			}
			cli.logger = logger
			cli.closeLog = closeLog
			return nil
		},
	}

	cli.rootCmd.SetOut(cli.out)
	cli.rootCmd.SetErr(cli.errOut)
	cli.addGlobalFlags()
}

// addGlobalFlags adds persistent flags that apply to all commands
func (cli *CLI) addGlobalFlags() {
	flags := cli.rootCmd.PersistentFlags()

	flags.StringP("collection", "c", "", "Collection name (file path for the file backend)")
	flags.StringP("backend", "b", blob.BackendFile, "Blob backend (file|memory|sqlite|pebble)")
	flags.StringP("data", "d", "", "Backend location: base dir, SQLite file or Pebble dir")
	flags.Bool("autocreate", false, "Create the collection if it does not exist")
	flags.String("id-format", ids.FormatUUID, "Generated id format (uuid|xid)")

	flags.StringP("format", "f", formatJSON, "Output format (json|yaml)")
	flags.String("log-level", "warn", "Log level (debug|info|warn|error)")
	flags.BoolP("verbose", "v", false, "Also write logs to stderr")

	for _, key := range globalKeys {
		_ = cli.viperInst.BindPFlag(key, flags.Lookup(key))
	}
}

// Execute runs the command line with args.
func (cli *CLI) Execute(args []string) error {
	cli.rootCmd.SetArgs(args)
	err := cli.rootCmd.Execute()
	if cli.closeLog != nil {
		_ = cli.closeLog()
		cli.closeLog = nil
	}
	return err
}

// openStore builds the collection store from the resolved configuration.
// The returned function releases the blob backend.
func (cli *CLI) openStore(operation string) (*collection.Store, func(), error) {
	name := cli.viperInst.GetString("collection")
	if name == "" {
		return nil, nil, NewConfigError(operation, "no collection given",
			"Use --collection (-c) or set NANODOC_COLLECTION",
			CommonSuggestions.CheckConfig)
	}

	backend := cli.viperInst.GetString("backend")
	blobs, err := blob.Open(backend, cli.viperInst.GetString("data"))
	if err != nil {
		return nil, nil, NewConfigError(operation, err.Error(), CommonSuggestions.CheckBackend)
	}
	release := func() {
		if err := blobs.Close(); err != nil {
			cli.logger.Warn("failed to close blob store", "backend", backend, "error", err)
		}
	}

	gen, err := ids.New(cli.viperInst.GetString("id-format"))
	if err != nil {
		release()
		return nil, nil, NewConfigError(operation, err.Error(), "Supported id formats: uuid, xid")
	}

	opts := []collection.Option{
		collection.WithIDGenerator(gen),
		collection.WithLogger(cli.logger.With("collection", name, "backend", backend)),
	}
	if cli.viperInst.GetBool("autocreate") {
		opts = append(opts, collection.WithAutocreate())
	}

	store, err := collection.New(blobs, name, opts...)
	if err != nil {
		release()
		return nil, nil, WrapError(operation, err, CommonSuggestions.CheckCollection)
	}
	return store, release, nil
}

// render writes v in the configured output format.
func (cli *CLI) render(v interface{}) error {
	return writeOutput(cli.out, cli.viperInst.GetString("format"), v)
}
