package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pkgerrors "github.com/glorpus-work/mcsync/pkg/errors"
	"github.com/glorpus-work/mcsync/pkg/launch"
	"github.com/glorpus-work/mcsync/pkg/version"
)

// NewArgsCmd creates the args command.
func NewArgsCmd() *cobra.Command {
	var (
		flags        launchFlags
		forgeProfile string
	)

	cmd := &cobra.Command{
		Use:   "args VERSION",
		Short: "Print the game arguments of a version",
		Long: `Print the game argument list of a version with every placeholder filled
in, one argument per line. Nothing but the version descriptor is downloaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArgs(cmd, args[0], &flags, forgeProfile)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&forgeProfile, "forge-profile", "", "Loader version.json whose arguments take precedence")

	return cmd
}

func runArgs(cmd *cobra.Command, id string, flags *launchFlags, forgeProfile string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := flags.options(cfg)
	if err != nil {
		return err
	}
	c := newComponents(cfg, progressHooks(cmd.ErrOrStderr()))

	desc, err := c.versions.GetVersion(cmd.Context(), id, cfg.VersionsDir())
	if err != nil {
		return fmt.Errorf("failed to resolve version %s: %w", id, err)
	}

	var overlay *version.ForgeProfile
	if forgeProfile != "" {
		data, err := os.ReadFile(forgeProfile)
		if err != nil {
			return pkgerrors.Wrapf(err, "could not read %s", forgeProfile)
		}
		if overlay, err = version.ParseForgeProfile(data); err != nil {
			return err
		}
	}

	gameArgs := launch.GameArguments(desc, overlay, opts)
	if ok, err := writeStructured(cmd.OutOrStdout(), gameArgs); ok {
		return err
	}
	writeLines(cmd.OutOrStdout(), gameArgs)
	return nil
}
