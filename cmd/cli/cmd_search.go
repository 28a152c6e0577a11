package main

import (
	"fmt"
	"strings"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/helpers/syscfghelper"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var searchMaxResults int

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Show the stored texts closest to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "n", 0, "number of results (default from config)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	h, err := syscfghelper.New(cliParams(true))
	if err != nil {
		return err
	}
	defer h.Close()

	cryptoAgent, _, err := h.GetAgent()
	if err != nil {
		return err
	}

	n := searchMaxResults
	if n <= 0 {
		n = h.Config().Agent.SearchResults
	}
	results, err := cryptoAgent.Search(cmd.Context(), strings.Join(args, " "), n)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		color.Warn.Println("no results")
		return nil
	}
	for i, result := range results {
		fmt.Printf("%2d. %s %s\n", i+1,
			color.FgLightBlue.Sprintf("[%.4f]", result.Distance),
			result.Text,
		)
	}
	return nil
}
