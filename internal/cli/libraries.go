package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/mcsync/internal/logger"
	"github.com/glorpus-work/mcsync/pkg/launch"
)

// NewLibrariesCmd creates the libraries command.
func NewLibrariesCmd() *cobra.Command {
	var dedupe bool

	cmd := &cobra.Command{
		Use:   "libraries VERSION",
		Short: "Install the libraries of a version",
		Long: `Download every library jar a version lists below libraries/ and print the
resulting classpath entries, one per line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraries(cmd, args[0], dedupe)
		},
	}

	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Keep only the highest version of each artifact")

	return cmd
}

func runLibraries(cmd *cobra.Command, id string, dedupe bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newComponents(cfg, progressHooks(cmd.ErrOrStderr()))

	desc, err := c.versions.GetVersion(cmd.Context(), id, cfg.VersionsDir())
	if err != nil {
		return fmt.Errorf("failed to resolve version %s: %w", id, err)
	}
	paths, libErr := c.libraries.Classpath(cmd.Context(), c.root(), desc)
	if libErr != nil {
		logger.Error("Some libraries could not be installed", logger.Fields{"error": libErr})
	}
	if dedupe {
		paths = launch.DedupeClasspath(paths)
	}

	if ok, err := writeStructured(cmd.OutOrStdout(), paths); ok {
		if err != nil {
			return err
		}
		return libErr
	}
	writeLines(cmd.OutOrStdout(), paths)
	return libErr
}
