// Package cmd implements the CLI commands for relay.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/phamducminh/relay-cli/internal/config"
	"github.com/phamducminh/relay-cli/internal/display"
	"github.com/phamducminh/relay-cli/internal/logging"
	"github.com/phamducminh/relay-cli/internal/route"
)

// App holds the application state
type App struct {
	cfg *config.Config
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	return &App{
		cfg: config.NewConfig(),
	}
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd(NewApp()).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the root command with all flags and subcommands.
func newRootCmd(app *App) *cobra.Command {
	var noStream bool

	rootCmd := &cobra.Command{
		Use:   "relay [query]",
		Short: "Route natural-language tasks to AI providers with automatic fallback",
		Long: `Relay is a command-line client that routes tasks to AI providers
(OpenAI, Gemini, APIZH) based on a per-task preference order, falling back
to the next configured provider when one is unavailable or fails.

Each provider is enabled by its credential environment variable:
OPENAI_API_KEY, GEMINI_API_KEY, APIZH_API_KEY.

Examples:
  relay "What is Kubernetes?"
  relay ask --provider gemini "Explain Docker"
  relay analyze "why does the scheduler starve low-priority jobs?"
  relay plan "migrate the billing service to gRPC"
  relay search "latest Go release notes"
  relay providers
  relay -i                              # Interactive mode`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.runRoot(cmd, args)
		},
	}

	// Resolve the stream flags before any command runs. Streaming is on by
	// default; --no-stream (or --stream=false) waits for the full reply.
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if noStream {
			app.cfg.Stream = false
		}
		app.cfg.StreamSet = noStream || rootCmd.PersistentFlags().Changed("stream")
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&app.cfg.Stream, "stream", true, "Stream the response as it arrives")
	pf.BoolVar(&noStream, "no-stream", false, "Wait for the complete response instead of streaming")
	pf.BoolVarP(&app.cfg.Verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVarP(&app.cfg.Usage, "usage", "u", false, "Show token usage statistics")
	pf.BoolVarP(&app.cfg.Render, "render", "r", false, "Render markdown with colors and formatting")
	pf.StringVarP(&app.cfg.Model, "model", "m", "", "Model name (overrides the provider's default)")
	pf.StringVar(&app.cfg.Provider, "provider", "", "AI provider (disables fallback; default: preference order)")
	pf.IntVar(&app.cfg.MaxTokens, "max-tokens", 0, "Maximum response tokens")
	rootCmd.Flags().BoolVarP(&app.cfg.Interactive, "interactive", "i", false, "Interactive chat mode")

	rootCmd.AddCommand(newTaskCommands(app)...)
	rootCmd.AddCommand(NewProvidersCmd(app))
	return rootCmd
}

// setup merges config sources and wires logging; every command calls it
// before doing work.
func (app *App) setup() error {
	if err := app.cfg.Validate(); err != nil {
		return err
	}

	level := logging.ParseLevel(os.Getenv(config.EnvLogLevel))
	if app.cfg.Verbose {
		level = logging.LevelDebug
	}
	logging.SetLevel(level)

	if app.cfg.Render {
		if err := display.InitRenderer(); err != nil {
			logging.Warn("markdown renderer unavailable", logging.Fields{"error": err.Error()})
			app.cfg.Render = false
		}
	}
	return nil
}

// runRoot handles a bare `relay "query"` invocation, which is shorthand for
// the ask task, and the -i interactive mode.
func (app *App) runRoot(cmd *cobra.Command, args []string) {
	if err := app.setup(); err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}

	if app.cfg.Interactive {
		app.runInteractive()
		return
	}

	if len(args) == 0 {
		_ = cmd.Help()
		os.Exit(1)
	}

	if err := app.runTask(route.TaskAsk, args[0]); err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}
}
