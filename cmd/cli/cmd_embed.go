package main

import (
	"strings"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/helpers/syscfghelper"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed <text>",
	Short: "Store a single text in the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEmbed,
}

func runEmbed(cmd *cobra.Command, args []string) error {
	h, err := syscfghelper.New(cliParams(true))
	if err != nil {
		return err
	}
	defer h.Close()

	cryptoAgent, _, err := h.GetAgent()
	if err != nil {
		return err
	}

	if err := cryptoAgent.Embed(cmd.Context(), strings.Join(args, " ")); err != nil {
		return err
	}
	color.Success.Println("stored")
	return nil
}
