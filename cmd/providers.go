package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phamducminh/relay-cli/internal/display"
	"github.com/phamducminh/relay-cli/internal/provider"
)

// NewProvidersCmd creates the providers command
func NewProvidersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List providers and their availability",
		Long: `List every known provider with its availability, the environment
variable holding its credential, and its default model.

Availability is read from the current environment on every invocation, so a
credential exported in the shell is picked up immediately.

Examples:
  relay providers`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := app.setup(); err != nil {
				display.ShowError(err.Error())
				os.Exit(1)
			}
			res := provider.NewResolver(provider.OSEnv())
			display.ShowProviders(res.All(), app.cfg.Provider)
			fmt.Printf("\n%d of %d providers available\n", len(res.Available()), len(res.All()))
		},
	}
}
