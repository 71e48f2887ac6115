package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	defaultConfigFile = "glustermon.ini"
)

var (
	sha1ver   string
	buildTime string
	repoName  string
)

var (
	configFile string
	debug      bool
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "glustermon",
		Short:         "Gluster peer and volume inspection over ssh",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(
		serveCmd(),
		peersCmd(),
		volumeCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: Build %s, Time %s\n", repoName, sha1ver, buildTime)
		},
	}
}
