package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/ltproxy"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   ltproxy.Name,
		Short: ltproxy.Description,
		Long: `ltproxy accepts text-translation requests, serves repeats from a bounded
in-memory cache and forwards misses to LibreTranslate-compatible backends,
trying each in order until one succeeds.

Configuration comes from an optional YAML file and the environment
(PORT, LT_URL, LT_FALLBACK_URLS, LT_API_KEY, LTPROXY_*).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newServeCmd(stdout, stderr))
	root.AddCommand(newVersionCmd(stdout))

	return root
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(stdout, "%s %s\n", ltproxy.Name, ltproxy.FullVersion())
			if ltproxy.GitCommit != "unknown" && ltproxy.GitCommit != "" {
				fmt.Fprintf(stdout, "  commit:  %s\n", ltproxy.GitCommit)
			}
			if ltproxy.BuildDate != "unknown" && ltproxy.BuildDate != "" {
				fmt.Fprintf(stdout, "  built:   %s\n", ltproxy.BuildDate)
			}
			return nil
		},
	}
}
