// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/silentvoice/sanctuary/internal/config"
	"github.com/silentvoice/sanctuary/internal/server"
)

func main() {
	cmd := &cli.Command{
		Name:   "sanctuary",
		Usage:  "Run the Silent Voice Sanctuary server",
		Flags:  config.Flags(),
		Action: server.Run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
