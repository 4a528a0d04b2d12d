package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/beastpak/cmd/beastpak"
	"github.com/arthur-debert/beastpak/pkg/style"
)

func main() {
	rootCmd := beastpak.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.RenderErrorLine(err))
		os.Exit(1)
	}
}
