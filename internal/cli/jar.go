package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/mcsync/internal/logger"
)

// NewJarCmd creates the jar command.
func NewJarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jar VERSION",
		Short: "Install the client jar of a version",
		Long: `Download versions/<id>/<id>.jar below the game root, verifying its digest,
and store the version descriptor next to it.`,
		Args: cobra.ExactArgs(1),
		RunE: runJar,
	}

	return cmd
}

func runJar(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newComponents(cfg, progressHooks(cmd.ErrOrStderr()))

	desc, err := c.versions.GetVersion(cmd.Context(), args[0], cfg.VersionsDir())
	if err != nil {
		return fmt.Errorf("failed to resolve version %s: %w", args[0], err)
	}
	jarPath, err := c.versions.InstallJar(cmd.Context(), c.root(), desc)
	if err != nil {
		return fmt.Errorf("failed to install client jar: %w", err)
	}

	logger.Debug("Client jar ready", logger.Fields{"version": desc.ID})
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), jarPath)
	return nil
}
