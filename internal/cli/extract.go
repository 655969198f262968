package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/mcsync/internal/logger"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract SOURCE",
		Short: "Unpack a client package into the game root",
		Long: `Unpack a client package (mods, configs, resource packs) into the game root.
SOURCE is a local archive or an http(s) URL, which is downloaded to
clientPackage.zip in the game root first.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newComponents(cfg, progressHooks(cmd.ErrOrStderr()))

	if err := c.orchestrator(phaseHooks(cmd.ErrOrStderr())).ExtractPackage(cmd.Context(), c.root(), args[0]); err != nil {
		return fmt.Errorf("failed to extract client package: %w", err)
	}
	logger.Success("Client package extracted", logger.Fields{"source": args[0], "root": c.root()})
	return nil
}
