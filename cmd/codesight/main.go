// Command codesight serves file-statistics and Python-structure tools over
// an MCP stdio or HTTP transport, and ships client subcommands for the
// HTTP endpoint.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
