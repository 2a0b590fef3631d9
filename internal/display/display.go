// Package display handles terminal output: markdown rendering, spinners,
// and colored status/error messages.
package display

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/phamducminh/relay-cli/internal/api"
	"github.com/phamducminh/relay-cli/internal/provider"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
	okColor    = color.New(color.FgGreen)
	dimColor   = color.New(color.Faint)
)

// renderer is the shared markdown renderer, initialized lazily by
// InitRenderer when the --render flag is set.
var renderer *glamour.TermRenderer

// InitRenderer prepares the markdown renderer for the current terminal.
func InitRenderer() error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize markdown renderer: %w", err)
	}
	renderer = r
	return nil
}

// ShowContentRendered prints content as rendered markdown, falling back to
// plain text when the renderer is unavailable.
func ShowContentRendered(content string) {
	if renderer == nil {
		fmt.Println(content)
		return
	}
	out, err := renderer.Render(content)
	if err != nil {
		fmt.Println(content)
		return
	}
	fmt.Print(out)
}

// ShowError prints an error message to stderr.
func ShowError(msg string) {
	errorColor.Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, msg)
}

// ShowFallback prints a non-fatal notice that a provider failed and another
// one is being tried.
func ShowFallback(failed, next provider.Provider) {
	warnColor.Fprintf(os.Stderr, "Provider %s failed, falling back to %s...\n", failed, next)
}

// ShowProviders prints every provider with its availability, credential
// variable, and default model.
func ShowProviders(infos []provider.Info, active string) {
	fmt.Println("Providers:")
	for _, in := range infos {
		envKey, _ := provider.EnvKey(in.Provider)

		marker := "  "
		if string(in.Provider) == active {
			marker = "* "
		}
		fmt.Printf("%s%-14s", marker, in.Provider)
		if in.Available {
			okColor.Print("available  ")
		} else {
			dimColor.Printf("missing %s  ", envKey)
		}
		dimColor.Printf("(default model: %s)\n", in.DefaultModel)
	}
}

// ShowUsage prints token usage statistics for the last call.
func ShowUsage(usage api.Usage) {
	dimColor.Printf("\n[tokens: %d prompt + %d completion = %d total]\n",
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
}

// NewSpinner creates a started spinner with the given suffix message.
// The caller must Stop it before writing output.
func NewSpinner(msg string) *spinner.Spinner {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " " + msg
	sp.Start()
	return sp
}
