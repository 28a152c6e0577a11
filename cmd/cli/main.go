package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/helpers/syscfghelper"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var (
	configPath string
	isDebug    bool
)

var rootCmd = &cobra.Command{
	Use:           "cryptoagent",
	Short:         "Chromia crypto research agent tools",
	Long:          `Loads the knowledge base, stores and searches texts, and looks up coins and the vector blockchain.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file (default $CRYPTOAGENT_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "display debug message")

	rootCmd.AddCommand(ingestCmd, embedCmd, searchCmd, coinCmd, ridCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		color.Error.Println(err)
		os.Exit(1)
	}
}

// cliParams builds the helper parameters. Commands that talk to a single
// backend skip the full config validation.
func cliParams(validate bool) syscfghelper.CliParams {
	return syscfghelper.CliParams{
		ConfigPath:     configPath,
		IsDebug:        isDebug,
		SkipValidation: !validate,
	}
}
