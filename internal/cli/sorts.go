package cli

import (
	"fmt"
	"io"

	"github.com/ilkoid/rakuten-agent/pkg/rakuten"
	"github.com/spf13/cobra"
)

// NewSortsCmd creates the 'sorts' command listing the sort codes the model can choose.
func NewSortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sorts",
		Short: "List sort codes accepted by searchItem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSorts(cmd.OutOrStdout())
		},
	}
}

func runSorts(out io.Writer) error {
	for _, s := range rakuten.AllSortOrders() {
		if _, err := fmt.Fprintf(out, "%2d  %-18s %s\n", int(s), s.Token(), s.Label()); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, "\nAny other code is sent as standard.")
	return nil
}
