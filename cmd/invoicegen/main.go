// invoicegen prices 3D print jobs from slicer statistics and exports
// customer invoices.
//
// Build:
//
//	go build -o invoicegen ./cmd/invoicegen
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := RootCommand()
	if err := app.Run(ctx, os.Args); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
