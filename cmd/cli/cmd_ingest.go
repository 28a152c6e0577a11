package main

import (
	"fmt"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/helpers/syscfghelper"
	"github.com/WangWilly/cryptoagent/pkgs/ragpkg/ingest"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var ingestWorkers int

var ingestCmd = &cobra.Command{
	Use:   "ingest <dataset.yaml>",
	Short: "Embed a cryptocurrency dataset into the knowledge base",
	Long: `Reads a YAML dataset of the form

  cryptocurrencies:
    - name: Bitcoin
      history: ...

and stores each coin's name, full history and history chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "concurrent store operations (default from config)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ds, err := ingest.LoadDataset(args[0])
	if err != nil {
		return err
	}

	h, err := syscfghelper.New(cliParams(true))
	if err != nil {
		return err
	}
	defer h.Close()

	cryptoAgent, _, err := h.GetAgent()
	if err != nil {
		return err
	}

	cfg := h.GetIngestCfg()
	if ingestWorkers > 0 {
		cfg.Workers = ingestWorkers
	}

	fmt.Printf("Loading %d cryptocurrencies from %s...\n", len(ds.Cryptocurrencies), args[0])
	stats, err := ingest.New(cfg, cryptoAgent).Run(cmd.Context(), ds)
	if err != nil {
		return err
	}

	fmt.Printf("coins: %s stored: %s failed: %s skipped: %s (%s)\n",
		color.FgLightBlue.Render(stats.Coins),
		color.FgGreen.Render(stats.Stored),
		color.FgRed.Render(stats.Failed),
		color.FgYellow.Render(stats.Skipped),
		stats.Duration.Round(1e6),
	)
	if stats.Failed > 0 {
		return fmt.Errorf("%d texts failed to store", stats.Failed)
	}
	color.Success.Println("Data embedding complete!")
	return nil
}
