package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/csvdrop/internal/client/cli"
	"github.com/dmitrijs2005/csvdrop/internal/client/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(ctx)

}
