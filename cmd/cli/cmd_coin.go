package main

import (
	"fmt"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/helpers/syscfghelper"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/WangWilly/cryptoagent/pkgs/ragpkg/agent"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var coinCmd = &cobra.Command{
	Use:   "coin <name-or-symbol>",
	Short: "Show current market data for a coin",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoin,
}

func runCoin(cmd *cobra.Command, args []string) error {
	h, err := syscfghelper.New(cliParams(false))
	if err != nil {
		return err
	}
	defer h.Close()

	market, err := h.GetCoinGeckoClient()
	if err != nil {
		return err
	}

	name := agent.SymbolToName(args[0])
	snapshot, err := market.GetCoinInfo(cmd.Context(), name)
	if err != nil {
		return err
	}

	fmt.Println(color.FgLightBlue.Render(snapshot.Name), "("+snapshot.Symbol+")")
	fmt.Println("  price:      $" + model.FormatFloat(snapshot.CurrentPrice))
	fmt.Println("  24h change: " + model.FormatFloat(snapshot.PriceChange24h) + "%")
	fmt.Println("  market cap: $" + model.FormatFloat(snapshot.MarketCap))
	fmt.Println("  rank:       #" + model.FormatInt(snapshot.MarketRank))
	fmt.Println("  blockchain: " + snapshot.Blockchain)
	fmt.Println("  genesis:    " + snapshot.GenesisDate)
	if snapshot.Homepage != "" {
		fmt.Println("  homepage:   " + snapshot.Homepage)
	}
	return nil
}
