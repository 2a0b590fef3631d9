// Package route maps task categories to ordered provider preference lists
// and implements the fallback selection that walks them.
package route

import (
	"errors"
	"fmt"

	"github.com/phamducminh/relay-cli/internal/provider"
)

// Task categorizes what the user asked the CLI to do. Each task owns exactly
// one preference list.
type Task string

const (
	TaskAsk      Task = "ask"
	TaskSearch   Task = "web-search"
	TaskAnalyze  Task = "repo-analysis"
	TaskPlan     Task = "planning"
	TaskDocument Task = "documentation"
	TaskBrowse   Task = "browser-automation"
)

// ErrUnknownTask is returned when a task has no registered preference list.
// This is a configuration error, fatal to the invocation.
var ErrUnknownTask = errors.New("unknown task")

// preferences orders providers per task, most preferred first. Order is the
// whole policy: selection is static and configuration-driven, never
// load- or latency-based.
var preferences = map[Task][]provider.Provider{
	TaskAsk:      {provider.ApizhCost, provider.OpenAI, provider.Gemini, provider.Apizh},
	TaskSearch:   {provider.Gemini, provider.OpenAI, provider.Apizh},
	TaskAnalyze:  {provider.ApizhReason, provider.OpenAI, provider.Gemini, provider.Apizh},
	TaskPlan:     {provider.ApizhReason, provider.OpenAI, provider.Gemini},
	TaskDocument: {provider.ApizhCost, provider.Gemini, provider.OpenAI, provider.Apizh},
	TaskBrowse:   {provider.OpenAI, provider.Gemini},
}

// Tasks returns every registered task in a fixed order.
func Tasks() []Task {
	return []Task{TaskAsk, TaskSearch, TaskAnalyze, TaskPlan, TaskDocument, TaskBrowse}
}

// Preferences returns the ordered preference list for a task.
func Preferences(task Task) ([]provider.Provider, error) {
	prefs, ok := preferences[task]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, task)
	}
	out := make([]provider.Provider, len(prefs))
	copy(out, prefs)
	return out, nil
}
