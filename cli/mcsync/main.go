package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/mcsync/internal/cli"
)

var (
	configPath   string
	verbose      bool
	outputFormat string
	rootDir      string
	osTag        string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcsync",
		Short: "Keep a game installation in sync with its version descriptors",
		Long: `mcsync materializes everything a game version needs below a root directory:
- version descriptors, client jar and libraries
- native libraries for the target OS
- the content-addressed asset store, verified and self-healing
and computes the classpath and argument lists for launching it.`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (text, json, yaml)")
	cmd.PersistentFlags().StringVar(&rootDir, "root", "", "game root directory (default from config)")
	cmd.PersistentFlags().StringVar(&osTag, "os", "", "target OS: windows, osx or linux (default from config)")

	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.OutputFormat = &outputFormat
	cli.RootDir = &rootDir
	cli.OSTag = &osTag

	cmd.AddCommand(
		cli.NewResolveCmd(),
		cli.NewJarCmd(),
		cli.NewNativesCmd(),
		cli.NewLibrariesCmd(),
		cli.NewForgeCmd(),
		cli.NewAssetsCmd(),
		cli.NewArgsCmd(),
		cli.NewPrepareCmd(),
		cli.NewExtractCmd(),
		cli.NewHooksCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
