package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/studiogate/internal/buildinfo"
	"github.com/dmitrijs2005/studiogate/internal/server"
	"github.com/dmitrijs2005/studiogate/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("studio server: %v", err)
	}

	app.Run(ctx)
}
