package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/avorobjovs/taskdeck/internal/app"
	"github.com/avorobjovs/taskdeck/internal/cli"
	"github.com/avorobjovs/taskdeck/internal/config"
	"github.com/avorobjovs/taskdeck/internal/flagx"
	"github.com/avorobjovs/taskdeck/internal/ui"
)

// configFlags are owned by the config layer and must not reach cobra.
var configFlags = []string{"-c", "-config", "--config", "-d", "-l", "-auth", "-i"}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	root := cli.NewRoot(&cli.App{
		Auth:     a.Auth,
		Tasks:    a.Tasks,
		Webhooks: a.Webhooks,
		Holder:   a.Holder,
		Migrate:  a.Migrate,
		Out:      os.Stdout,
	})
	root.SetArgs(flagx.StripArgs(os.Args[1:], configFlags))

	err = a.Run(ctx, func(ctx context.Context) error {
		return root.ExecuteContext(ctx)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		os.Exit(1)
	}
}
