package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/beastpak/cmd/beastpak"
	"github.com/arthur-debert/beastpak/internal/version"
)

func main() {
	rootCmd := beastpak.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "BEASTPAK",
		Section: "1",
		Source:  "beastpak " + version.Version,
		Manual:  "beastpak manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
