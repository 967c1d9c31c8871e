package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ilkoid/rakuten-agent/pkg/rakuten"
	"github.com/ilkoid/rakuten-agent/pkg/render"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the 'search' command: one Rakuten query, no model involved.
func NewSearchCmd(configPath *string) *cobra.Command {
	var keyword string
	var sortOrder int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a single Rakuten Ichiba search and print the shaped items",
		Long: `Query the Ichiba item search API exactly as the searchItem tool does:
the sort code is resolved (unknown codes fall back to standard), the result
window is applied and every item is reduced to name, URL and caption.`,
		Example: `  rakuten-agent search --keyword ソファ --sort 6
  rakuten-agent search -k "ローテーブル" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), *configPath, keyword, sortOrder, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Search keyword")
	cmd.Flags().IntVarP(&sortOrder, "sort", "s", int(rakuten.SortStandard), "Sort code 0-10 (see 'rakuten-agent sorts')")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("keyword")

	return cmd
}

func runSearch(parent context.Context, out io.Writer, configPath, keyword string, sortOrder int, jsonOutput bool) error {
	s, err := openSession(parent, configPath)
	if err != nil {
		return err
	}
	defer s.close()

	client, err := rakuten.NewFromConfig(s.cfg.Rakuten)
	if err != nil {
		return fmt.Errorf("create rakuten client: %w", err)
	}

	items, err := client.Search(s.ctx, keyword, sortOrder)
	if err != nil {
		return describeError(err)
	}

	if jsonOutput {
		return render.ItemsJSON(out, items)
	}

	fmt.Fprintf(out, "%s / %s: %d item(s)\n\n", keyword, rakuten.SortLabel(sortOrder), len(items))
	return render.Items(out, items)
}
