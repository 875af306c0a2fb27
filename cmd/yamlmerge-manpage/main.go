package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/yamlmerge/cmd/yamlmerge"
)

func main() {
	rootCmd := yamlmerge.NewRootCmd()

	if err := doc.GenMan(rootCmd, yamlmerge.ManHeader(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
