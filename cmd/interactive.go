package cmd

import (
	"fmt"
	"strings"

	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"
	"github.com/google/uuid"

	"github.com/phamducminh/relay-cli/internal/display"
	"github.com/phamducminh/relay-cli/internal/logging"
	"github.com/phamducminh/relay-cli/internal/provider"
	"github.com/phamducminh/relay-cli/internal/route"
)

// InteractiveSession holds the state for an interactive session. Each input
// line runs as an independent ask invocation through the same provider
// selection and streaming path as the one-shot command.
type InteractiveSession struct {
	app       *App
	sessionID string
	exitFlag  bool
}

var slashCommands = []prompt.Suggest{
	{Text: "/provider", Description: "Pin a provider (empty to restore fallback)"},
	{Text: "/model", Description: "Override the model (empty to restore default)"},
	{Text: "/providers", Description: "List providers and availability"},
	{Text: "/clear", Description: "Clear the screen"},
	{Text: "/help", Description: "Show available commands"},
	{Text: "/exit", Description: "Exit interactive mode"},
}

// completer suggests slash commands and, for /provider, the known provider
// names.
func (s *InteractiveSession) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	text := d.TextBeforeCursor()
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	if !strings.HasPrefix(text, "/") {
		return []prompt.Suggest{}, startIndex, endIndex
	}

	if strings.HasPrefix(strings.ToLower(text), "/provider ") {
		res := provider.NewResolver(provider.OSEnv())
		var suggestions []prompt.Suggest
		for _, in := range res.All() {
			desc := "missing credential"
			if in.Available {
				desc = "available"
			}
			suggestions = append(suggestions, prompt.Suggest{Text: string(in.Provider), Description: desc})
		}
		return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
	}

	return prompt.FilterHasPrefix(slashCommands, w, true), startIndex, endIndex
}

// runInteractive starts a REPL for the ask task.
func (app *App) runInteractive() {
	session := &InteractiveSession{
		app:       app,
		sessionID: uuid.New().String(),
	}

	fmt.Println("relay - Interactive Mode")
	fmt.Println("Type /help for commands, Ctrl+C or Ctrl+D to quit")
	fmt.Println()

	logging.Debug("interactive session started", logging.Fields{"session": session.sessionID})

	p := prompt.New(
		session.executor,
		prompt.WithCompleter(session.completer),
		prompt.WithPrefix("> "),
		prompt.WithTitle("relay"),
		prompt.WithPrefixTextColor(prompt.Green),
		prompt.WithMaxSuggestion(10),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return session.exitFlag
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				fmt.Println("\nGoodbye!")
				session.exitFlag = true
				return false
			},
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					fmt.Println("Goodbye!")
					session.exitFlag = true
				}
				return false
			},
		}),
	)

	p.Run()
}

// executor handles one input line: slash commands or an ask invocation.
func (s *InteractiveSession) executor(input string) {
	if s.exitFlag {
		return
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	if strings.HasPrefix(input, "/") {
		s.handleCommand(input)
		return
	}

	fmt.Println()
	if err := s.app.runTask(route.TaskAsk, input); err != nil {
		display.ShowError(err.Error())
	}
	fmt.Println()
}

func (s *InteractiveSession) handleCommand(input string) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch cmd {
	case "/exit", "/quit":
		fmt.Println("Goodbye!")
		s.exitFlag = true

	case "/help":
		for _, sc := range slashCommands {
			fmt.Printf("  %-12s %s\n", sc.Text, sc.Description)
		}

	case "/providers":
		res := provider.NewResolver(provider.OSEnv())
		display.ShowProviders(res.All(), s.app.cfg.Provider)

	case "/clear":
		// Invocations are stateless single-turn, so there is no history to
		// drop; clear the terminal.
		fmt.Print("\033[2J\033[H")

	case "/provider":
		if arg == "" {
			s.app.cfg.Provider = ""
			fmt.Println("Provider pin cleared; using preference order.")
			return
		}
		if _, err := provider.Parse(arg); err != nil {
			display.ShowError(err.Error())
			return
		}
		s.app.cfg.Provider = arg
		fmt.Printf("Provider pinned to %s.\n", arg)

	case "/model":
		s.app.cfg.Model = arg
		if arg == "" {
			fmt.Println("Model override cleared; using provider defaults.")
		} else {
			fmt.Printf("Model set to %s.\n", arg)
		}

	default:
		display.ShowError(fmt.Sprintf("unknown command %s (try /help)", cmd))
	}
}
