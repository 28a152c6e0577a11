package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/helpers/syscfghelper"
	"github.com/WangWilly/cryptoagent/pkgs/serverpkg/server"
	"github.com/gookit/color"
	logrus "github.com/sirupsen/logrus"
)

func main() {
	var configPath string
	var isDebug bool
	flag.StringVar(&configPath, "config", "", "path to the YAML config file (default $CRYPTOAGENT_CONFIG)")
	flag.BoolVar(&isDebug, "debug", false, "display debug message")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	////////////////////////////////////////////////////////////////////////////

	helper, err := syscfghelper.New(syscfghelper.CliParams{
		ConfigPath: configPath,
		IsDebug:    isDebug,
	})
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	defer helper.Close()

	cryptoAgent, store, err := helper.GetAgent()
	if err != nil {
		logrus.Fatalln("Failed to build agent:", err)
	}

	////////////////////////////////////////////////////////////////////////////

	cfg := helper.GetServerCfg()
	srv := server.NewServer(cfg, cryptoAgent, store)

	logrus.Infoln("Chromia research agent on", color.FgLightBlue.Render("http://localhost:"+cfg.Port))
	if err := srv.Start(ctx); err != nil {
		logrus.Errorln("Server failed:", err)
		helper.Close()
		stop()
		logrus.Exit(1)
	}
	logrus.Infoln("Server stopped")
}
