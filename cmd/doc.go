// Package cmd implements the CLI commands for relay.
//
// This package is organized into the following logical groups:
//
//   - root.go: Main entry point, App struct, cobra command setup, and flags
//   - tasks.go: One subcommand per task category (ask, explain, analyze,
//     plan, search, browse) and the prompt options each implies
//   - run.go: The fallback loop — provider selection, streaming execution,
//     and the user-facing exhaustion message
//   - providers.go: The providers listing command
//   - interactive.go: Interactive REPL with slash commands
//
// The App struct holds application state and configuration. It is created
// in Execute() and passed through command handlers.
package cmd
