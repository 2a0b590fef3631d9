package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/phamducminh/relay-cli/internal/api"
	"github.com/phamducminh/relay-cli/internal/config"
	"github.com/phamducminh/relay-cli/internal/display"
	"github.com/phamducminh/relay-cli/internal/generator"
	"github.com/phamducminh/relay-cli/internal/logging"
	"github.com/phamducminh/relay-cli/internal/provider"
	"github.com/phamducminh/relay-cli/internal/route"
)

// runTask executes query under the given task category with the default
// prompt options for that category.
func (app *App) runTask(task route.Task, query string) error {
	return app.runTaskSpec(specFor(task), query)
}

// runTaskSpec drives one task invocation: pick a provider, stream the
// response, and on provider failure fall back to the next preference until
// the list is exhausted. An explicit provider (flag, env, or per-task config
// override) disables fallback: the user asked for that provider, so its
// failure is final.
func (app *App) runTaskSpec(spec taskSpec, query string) error {
	res := provider.NewResolver(provider.OSEnv())
	override := app.cfg.TaskOverride(string(spec.task))

	explicit := app.cfg.Provider
	if explicit == "" {
		explicit = override.Provider
	}
	if explicit != "" {
		p, err := provider.Parse(explicit)
		if err != nil {
			return err
		}
		return app.attempt(spec, p, override, query)
	}

	return runFallback(res, spec.task, func(p provider.Provider) error {
		return app.attempt(spec, p, override, query)
	})
}

// runFallback walks the preference order for task, trying each available
// provider until one succeeds. After a failure the next provider is selected
// once against the current credential snapshot, and that same provider is
// the one attempted, so the fallback notice always names the provider
// actually tried next.
func runFallback(res *provider.Resolver, task route.Task, try func(provider.Provider) error) error {
	p, ok, err := route.Next(res, task, "")
	if err != nil {
		return err
	}
	if !ok {
		return exhaustedError(res, task)
	}

	for {
		err := try(p)
		if err == nil {
			return nil
		}
		logging.Warn("provider attempt failed", logging.Fields{
			"task":     string(task),
			"provider": string(p),
			"error":    err.Error(),
		})

		next, more, nerr := route.Next(res, task, p)
		if nerr != nil {
			return nerr
		}
		if !more {
			return finalFailureError(res, task, p, err)
		}
		display.ShowFallback(p, next)
		p = next
	}
}

// finalFailureError wraps the last provider's error with the full candidate
// listing, so a run that exhausts the preference list always tells the user
// which providers were considered and what credential each one needs.
func finalFailureError(res *provider.Resolver, task route.Task, p provider.Provider, cause error) error {
	listing, err := route.Describe(res, task)
	if err != nil {
		return fmt.Errorf("%s failed: %w", p, cause)
	}
	return fmt.Errorf("%s failed: %w\nProviders considered, in preference order:\n%s", p, cause, listing)
}

// exhaustedError builds the user-facing message for an empty selection:
// which providers were considered and which credential each one needs.
func exhaustedError(res *provider.Resolver, task route.Task) error {
	listing, err := route.Describe(res, task)
	if err != nil {
		return err
	}
	return fmt.Errorf("no provider is available for the %s task. Providers considered, in preference order:\n%s", task, listing)
}

// attempt runs a single provider invocation through the streaming contract.
func (app *App) attempt(spec taskSpec, p provider.Provider, override config.TaskConfig, query string) error {
	model := app.cfg.Model
	if model == "" {
		model = override.Model
	}
	if model == "" {
		var err error
		if model, err = provider.DefaultModel(p); err != nil {
			return err
		}
	}

	client, err := api.NewClient(p, app.cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	logging.Debug("invoking provider", logging.Fields{
		"task":     string(spec.task),
		"provider": string(p),
		"model":    model,
	})

	req := api.Request{
		Model:           model,
		SystemPrompt:    spec.systemPrompt,
		UserMessage:     query,
		MaxTokens:       app.cfg.MaxTokens,
		ReasoningEffort: spec.reasoningEffort,
		WebSearch:       spec.webSearch,
	}

	gen := generator.New(func(emit generator.Emit) error {
		if !app.cfg.Stream {
			resp, qerr := client.Query(context.Background(), req)
			if qerr != nil {
				return qerr
			}
			return emit(resp.GetContent())
		}

		abandoned := false
		_, err := client.QueryStream(context.Background(), req, func(content string) {
			if abandoned {
				// The consumer walked away; let the in-flight call run
				// out, but stop forwarding.
				return
			}
			if emit(content) != nil {
				abandoned = true
			}
		})
		if abandoned {
			return generator.ErrCancelled
		}
		return err
	})

	output, err := app.consume(gen)
	if err != nil {
		return err
	}

	if app.cfg.Render {
		display.ShowContentRendered(output)
	} else {
		fmt.Println()
	}
	if app.cfg.Usage {
		display.ShowUsage(client.LastUsage())
	}
	return nil
}

// consume pulls the generator to its terminal state, echoing chunks as they
// arrive (unless rendering, which needs the whole document). The
// accumulated text is returned even when production failed partway, so
// partial output is never retracted.
func (app *App) consume(gen *generator.Generator) (string, error) {
	defer gen.Close()

	sp := display.NewSpinner("Thinking...")
	waiting := true

	var full strings.Builder
	for {
		chunk, ok := gen.Next()
		if waiting {
			sp.Stop()
			waiting = false
		}
		if !ok {
			return full.String(), nil
		}
		switch {
		case chunk.Err != nil:
			return full.String(), chunk.Err
		case chunk.Done:
			// Terminal; the next pull observes the closed stream.
		default:
			full.WriteString(chunk.Text)
			if !app.cfg.Render {
				fmt.Print(chunk.Text)
			}
		}
	}
}
