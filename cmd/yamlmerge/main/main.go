package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/yamlmerge/cmd/yamlmerge"
	"github.com/arthur-debert/yamlmerge/pkg/ui/styles"
)

func main() {
	rootCmd := yamlmerge.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Render("Error", fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
