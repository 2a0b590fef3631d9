package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/phamducminh/relay-cli/internal/display"
	"github.com/phamducminh/relay-cli/internal/route"
)

// taskSpec binds a subcommand to a task category and the prompt options the
// category implies.
type taskSpec struct {
	use             string
	short           string
	task            route.Task
	systemPrompt    string
	reasoningEffort string
	webSearch       bool
}

var taskSpecs = []taskSpec{
	{
		use:          "ask [query]",
		short:        "Ask a general question",
		task:         route.TaskAsk,
		systemPrompt: "Be precise and concise.",
	},
	{
		use:   "explain [topic]",
		short: "Explain a concept or piece of code in depth",
		task:  route.TaskDocument,
		systemPrompt: "You are a technical writer. Explain the topic thoroughly " +
			"with examples, assuming a professional software engineering audience.",
	},
	{
		use:   "analyze [question]",
		short: "Analyze a codebase or system design question",
		task:  route.TaskAnalyze,
		systemPrompt: "You are a senior engineer reviewing a codebase. Reason " +
			"step by step and point out concrete risks and root causes.",
		reasoningEffort: "high",
	},
	{
		use:   "plan [goal]",
		short: "Draft a step-by-step plan for a task",
		task:  route.TaskPlan,
		systemPrompt: "Produce a numbered, actionable plan. Call out " +
			"dependencies between steps and open questions.",
		reasoningEffort: "high",
	},
	{
		use:          "search [query]",
		short:        "Answer using current web results",
		task:         route.TaskSearch,
		systemPrompt: "Answer using up-to-date web information and cite sources.",
		webSearch:    true,
	},
	{
		use:   "browse [instruction]",
		short: "Describe browser automation steps for an instruction",
		task:  route.TaskBrowse,
		systemPrompt: "Translate the instruction into an ordered list of " +
			"browser automation steps (navigate, click, fill, extract).",
	},
}

// newTaskCommands builds one cobra command per task category.
func newTaskCommands(app *App) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(taskSpecs))
	for _, spec := range taskSpecs {
		spec := spec
		cmds = append(cmds, &cobra.Command{
			Use:   spec.use,
			Short: spec.short,
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				if err := app.setup(); err != nil {
					display.ShowError(err.Error())
					os.Exit(1)
				}
				if err := app.runTaskSpec(spec, args[0]); err != nil {
					display.ShowError(err.Error())
					os.Exit(1)
				}
			},
		})
	}
	return cmds
}

// specFor returns the taskSpec for a task category. The ask spec is the
// fallback so the root command and interactive mode share its prompt.
func specFor(task route.Task) taskSpec {
	for _, spec := range taskSpecs {
		if spec.task == task {
			return spec
		}
	}
	return taskSpecs[0]
}
