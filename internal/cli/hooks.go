package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/mcsync/internal/logger"
	"github.com/glorpus-work/mcsync/pkg/fsutil"
	"github.com/glorpus-work/mcsync/pkg/hooks"
)

// NewHooksCmd creates the hooks command.
func NewHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage hook scripts",
		Long: `Hook scripts are Tengo programs in <root>/hooks named <type>.tengo.
pre-prepare runs before a version is prepared and may abort it; post-prepare
runs afterwards and may add JVM and game arguments.`,
	}

	cmd.AddCommand(newHooksInitCmd(), newHooksListCmd())

	return cmd
}

func newHooksInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:       "init TYPE",
		Short:     "Write a hook script template",
		Args:      cobra.ExactArgs(1),
		ValidArgs: hookTypeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHooksInit(cmd, hooks.HookType(args[0]), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing script")

	return cmd
}

func newHooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the hook scripts of the game root",
		RunE:  runHooksList,
	}
}

func hookTypeNames() []string {
	names := make([]string, 0, len(hooks.Types()))
	for _, t := range hooks.Types() {
		names = append(names, string(t))
	}
	return names
}

func runHooksInit(cmd *cobra.Command, hookType hooks.HookType, force bool) error {
	if !slices.Contains(hooks.Types(), hookType) {
		return fmt.Errorf("unknown hook type %q, valid types: %v", hookType, hookTypeNames())
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.Settings.RootDir, "hooks", string(hookType)+hooks.HookFileExtension)
	if fsutil.FileExists(path) && !force {
		return fmt.Errorf("hook script %s already exists (use --force to overwrite)", path)
	}
	if err := fsutil.EnsureFileDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(hooks.HookTemplate(hookType)+"\n"), fsutil.FileModeDefault); err != nil {
		return fmt.Errorf("failed to write hook script: %w", err)
	}

	logger.Success("Hook script created", logger.Fields{"path": path})
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runHooksList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scripts := hooks.NewTengoExecutor()
	if err := hooks.LoadHooksFromRoot(scripts, cfg.Settings.RootDir); err != nil {
		return err
	}
	for _, t := range hooks.Types() {
		if scripts.HasHook(t) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), t)
		}
	}
	return nil
}
