package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-note-vault/internal/app"
	"github.com/MKhiriev/go-note-vault/internal/client"
	"github.com/MKhiriev/go-note-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := client.NewCLI(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
	if err := cli.Execute(ctx); err != nil {
		msg := app.UserMessage(err)
		fmt.Fprintf(os.Stderr, "notevault: %s\n", msg)
		if msg == app.MsgInternalError {
			fmt.Fprintf(os.Stderr, "details: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
