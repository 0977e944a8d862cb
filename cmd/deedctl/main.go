package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/msalhab/deedbridge/internal/ctl"
	"github.com/msalhab/deedbridge/internal/host/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := ctl.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	if err := app.Run(ctx, commandArgs(os.Args[1:])); err != nil {
		log.Fatalf("%v", err)
	}

}

// commandArgs strips the leading configuration flags (and their values) so
// the subcommand and its own flags remain. Config flags are consumed by
// config.LoadConfig.
func commandArgs(args []string) []string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			return args[i:]
		}
		if !strings.Contains(a, "=") {
			// the flag's value is a separate argument
			i++
		}
	}
	return nil
}
