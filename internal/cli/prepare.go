package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/mcsync/pkg/hooks"
	"github.com/glorpus-work/mcsync/pkg/orchestrator"
)

type planView struct {
	Version    string   `json:"version" yaml:"version"`
	Forge      string   `json:"forge,omitempty" yaml:"forge,omitempty"`
	MainClass  string   `json:"mainClass" yaml:"main_class"`
	NativesDir string   `json:"nativesDir" yaml:"natives_dir"`
	ClientJar  string   `json:"clientJar" yaml:"client_jar"`
	Classpath  []string `json:"classpath" yaml:"classpath"`
	JVMArgs    []string `json:"jvmArgs" yaml:"jvm_args"`
	GameArgs   []string `json:"gameArgs" yaml:"game_args"`
}

// NewPrepareCmd creates the prepare command.
func NewPrepareCmd() *cobra.Command {
	var (
		flags      launchFlags
		forgeJar   string
		skipAssets bool
		strict     bool
		command    bool
		noHooks    bool
	)

	cmd := &cobra.Command{
		Use:   "prepare VERSION",
		Short: "Prepare a version for launch",
		Long: `Resolve a version and install everything it needs: natives, client jar,
libraries (plus the Forge loader's when --forge-jar is given) and assets.
Prints the resulting launch plan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrepare(cmd, args[0], &flags, prepareFlags{
				forgeJar:   forgeJar,
				skipAssets: skipAssets,
				strict:     strict,
				command:    command,
				noHooks:    noHooks,
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&forgeJar, "forge-jar", "", "Forge loader jar to overlay")
	cmd.Flags().BoolVar(&skipAssets, "skip-assets", false, "Do not synchronize assets")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a library cannot be installed")
	cmd.Flags().BoolVar(&command, "command", false, "Print a java command line instead of the plan")
	cmd.Flags().BoolVar(&noHooks, "no-hooks", false, "Do not run hook scripts from the game root")

	return cmd
}

type prepareFlags struct {
	forgeJar   string
	skipAssets bool
	strict     bool
	command    bool
	noHooks    bool
}

func runPrepare(cmd *cobra.Command, id string, flags *launchFlags, pf prepareFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	launchOpts, err := flags.options(cfg)
	if err != nil {
		return err
	}
	c := newComponents(cfg, progressHooks(cmd.ErrOrStderr()))
	orch := c.orchestrator(phaseHooks(cmd.ErrOrStderr()))
	if !pf.noHooks {
		scripts := hooks.NewTengoExecutor()
		if err := hooks.LoadHooksFromRoot(scripts, cfg.Settings.RootDir); err != nil {
			return err
		}
		orch.Scripts = scripts
	}

	plan, err := orch.Prepare(cmd.Context(), id, orchestrator.PrepareOptions{
		Root:            cfg.Settings.RootDir,
		CacheDir:        cfg.VersionsDir(),
		OS:              cfg.Settings.OS,
		ForgeJar:        pf.forgeJar,
		Launch:          launchOpts,
		SkipAssets:      pf.skipAssets,
		StrictLibraries: pf.strict,
	})
	if err != nil {
		return fmt.Errorf("failed to prepare version %s: %w", id, err)
	}

	w := cmd.OutOrStdout()
	if pf.command {
		_, err := fmt.Fprintln(w, strings.Join(commandLine(plan, cfg.Settings.OS), " "))
		return err
	}

	view := planView{
		Version:    plan.Descriptor.ID,
		MainClass:  plan.MainClass,
		NativesDir: plan.NativesDir,
		ClientJar:  plan.ClientJar,
		Classpath:  plan.Classpath,
		JVMArgs:    plan.JVMArgs,
		GameArgs:   plan.GameArgs,
	}
	if plan.Forge != nil {
		view.Forge = plan.Forge.ID
	}
	if ok, err := writeStructured(w, view); ok {
		return err
	}

	_, _ = fmt.Fprintf(w, "Version:    %s\n", view.Version)
	if view.Forge != "" {
		_, _ = fmt.Fprintf(w, "Forge:      %s\n", view.Forge)
	}
	_, _ = fmt.Fprintf(w, "Main class: %s\n", view.MainClass)
	_, _ = fmt.Fprintf(w, "Natives:    %s\n", view.NativesDir)
	_, _ = fmt.Fprintf(w, "Classpath:  %d entries\n", len(view.Classpath))
	_, _ = fmt.Fprintf(w, "Assets:     %d verified, %d fetched\n", plan.Assets.Verified, plan.Assets.Fetched)
	return nil
}

// commandLine returns the java invocation of plan for osTag.
func commandLine(plan *orchestrator.Plan, osTag string) []string {
	args := []string{"java"}
	args = append(args, plan.JVMArgs...)
	args = append(args, "-cp", plan.ClasspathString(osTag), plan.MainClass)
	return append(args, plan.GameArgs...)
}
