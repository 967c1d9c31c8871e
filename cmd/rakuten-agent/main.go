/*
Package main is the entry point for the rakuten-agent CLI.

Usage:

	rakuten-agent [command]

Available Commands:

	recommend   Search Rakuten Ichiba and print a recommended item
	search      Run a single Rakuten Ichiba search and print the shaped items
	sorts       List sort codes accepted by searchItem

Environment:

	RAKUTEN_APP_ID   Rakuten applicationId
	OPENAI_API_KEY   key for the chat model
	OPENAI_BASE_URL  optional OpenAI-compatible endpoint
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ilkoid/rakuten-agent/internal/cli"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
