package main

import (
	"os"

	"github.com/tphakala/notes-go/cmd"
	"github.com/tphakala/notes-go/internal/buildinfo"
)

func main() {
	if err := cmd.RootCommand(buildinfo.Current()).Execute(); err != nil {
		os.Exit(1)
	}
}
