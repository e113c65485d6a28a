package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/Nitrolaunch/weld/internal/cli"
	"github.com/Nitrolaunch/weld/internal/version"
)

func main() {
	rootCmd := cli.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "WELD",
		Section: "1",
		Source:  "weld " + version.Version,
		Manual:  "Nitrolaunch weld manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
