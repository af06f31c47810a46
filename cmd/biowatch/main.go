// Command biowatch watches document sources and answers relevance queries.
package main

import (
	"os"

	"github.com/custodia-labs/biowatch/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
