package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewNativesCmd creates the natives command.
func NewNativesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "natives VERSION",
		Short: "Install the native libraries of a version",
		Long: `Download and unpack the native bundles of a version for the configured OS
into natives/<id>. An existing directory is left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: runNatives,
	}

	return cmd
}

func runNatives(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newComponents(cfg, progressHooks(cmd.ErrOrStderr()))

	desc, err := c.versions.GetVersion(cmd.Context(), args[0], cfg.VersionsDir())
	if err != nil {
		return fmt.Errorf("failed to resolve version %s: %w", args[0], err)
	}
	dir, err := c.natives.Install(cmd.Context(), c.root(), desc, cfg.Settings.OS)
	if err != nil {
		return fmt.Errorf("failed to install natives: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}
