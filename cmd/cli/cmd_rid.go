package main

import (
	"fmt"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/helpers/syscfghelper"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var ridCmd = &cobra.Command{
	Use:   "rid",
	Short: "Print the RID of the vector blockchain",
	Args:  cobra.NoArgs,
	RunE:  runRID,
}

func runRID(cmd *cobra.Command, args []string) error {
	h, err := syscfghelper.New(cliParams(false))
	if err != nil {
		return err
	}
	defer h.Close()

	rid, err := h.GetChromiaClient().ResolveRID(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println(color.FgLightBlue.Render(h.Config().VectorStore.Chromia.BlockchainName), rid)
	return nil
}
