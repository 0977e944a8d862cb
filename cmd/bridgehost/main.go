package main

import (
	"context"
	"log"

	"github.com/msalhab/deedbridge/internal/host"
	"github.com/msalhab/deedbridge/internal/host/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := host.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
