package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/bookstore/internal/cli"
	"github.com/dmitrijs2005/bookstore/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadBaseConfig()

	app, err := cli.NewApp(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = app.Run(ctx, cli.CommandArgs(os.Args[1:]))
	_ = app.Close()

	if errors.Is(err, cli.ErrUsage) {
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

}
