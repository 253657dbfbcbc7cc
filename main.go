package main

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/mlechner911/emperor/internal/cli"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	dist, err := fs.Sub(assets, "frontend/dist")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if err := cli.Execute(dist); err != nil {
		os.Exit(1)
	}
}
