// Command ltproxy runs the caching translation proxy.
//
// Usage:
//
//	# Start with defaults (LibreTranslate public instance, port 8080)
//	ltproxy serve
//
//	# Start with a configuration file
//	ltproxy serve --config /etc/ltproxy/config.yaml
//
//	# Check configuration without listening
//	ltproxy serve --dry-run
//
//	# Show version information
//	ltproxy version
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.Execute()
}
