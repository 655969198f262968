package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/mcsync/internal/logger"
)

type forgeView struct {
	ID        string   `json:"id" yaml:"id"`
	MainClass string   `json:"mainClass" yaml:"main_class"`
	Libraries []string `json:"libraries" yaml:"libraries"`
}

// NewForgeCmd creates the forge command.
func NewForgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forge VERSION FORGE_JAR",
		Short: "Install the libraries of a Forge loader",
		Long: `Read the version profile embedded in FORGE_JAR, store it under forge/<id>
and download every library it lists from its repository.`,
		Args: cobra.ExactArgs(2),
		RunE: runForge,
	}

	return cmd
}

func runForge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newComponents(cfg, progressHooks(cmd.ErrOrStderr()))

	desc, err := c.versions.GetVersion(cmd.Context(), args[0], cfg.VersionsDir())
	if err != nil {
		return fmt.Errorf("failed to resolve version %s: %w", args[0], err)
	}
	bundle, libErr := c.libraries.ForgeDependencies(cmd.Context(), c.root(), desc, args[1])
	if bundle == nil {
		return fmt.Errorf("failed to read loader profile: %w", libErr)
	}
	if libErr != nil {
		logger.Error("Some loader libraries could not be installed", logger.Fields{"error": libErr})
	}

	view := forgeView{Libraries: bundle.Paths}
	if bundle.Forge != nil {
		view.ID = bundle.Forge.ID
		view.MainClass = bundle.Forge.MainClass
	}
	if ok, err := writeStructured(cmd.OutOrStdout(), view); ok {
		if err != nil {
			return err
		}
		return libErr
	}
	writeLines(cmd.OutOrStdout(), view.Libraries)
	return libErr
}
