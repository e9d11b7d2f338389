// Package main provides the botdb CLI application.
// botdb manages the lifecycle of a botanical taxonomy database:
// schema migrations, the taxonomic hierarchy, conservation
// assessments, and Darwin Core archive exchange.
package main

import (
	"os"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
