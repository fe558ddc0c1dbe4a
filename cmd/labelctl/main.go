package main

import (
	"context"
	"os"

	"github.com/bitfantasy/qr-label/internal/cli"
	"github.com/charmbracelet/fang"
)

var Version = "dev"

func main() {
	root := cli.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
