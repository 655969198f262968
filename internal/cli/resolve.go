package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// TabWidth is the width of tabs in formatted output.
const TabWidth = 2

type versionView struct {
	ID         string `json:"id" yaml:"id"`
	Type       string `json:"type" yaml:"type"`
	MainClass  string `json:"mainClass" yaml:"main_class"`
	AssetIndex string `json:"assetIndex" yaml:"asset_index"`
	Libraries  int    `json:"libraries" yaml:"libraries"`
	ClientURL  string `json:"clientUrl,omitempty" yaml:"client_url,omitempty"`
}

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve VERSION",
		Short: "Resolve a version descriptor",
		Long: `Resolve a version descriptor through the cache or the version manifest.
VERSION may be an id or one of the aliases "latest" and "latest-snapshot".`,
		Args: cobra.ExactArgs(1),
		RunE: runResolve,
	}

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c := newComponents(cfg, progressHooks(cmd.ErrOrStderr()))

	desc, err := c.versions.GetVersion(cmd.Context(), args[0], cfg.VersionsDir())
	if err != nil {
		return fmt.Errorf("failed to resolve version %s: %w", args[0], err)
	}

	view := versionView{
		ID:         desc.ID,
		Type:       desc.Type,
		MainClass:  desc.MainClass,
		AssetIndex: desc.AssetIndex.ID,
		Libraries:  len(desc.Libraries),
	}
	if desc.Downloads.Client != nil {
		view.ClientURL = desc.Downloads.Client.URL
	}
	if ok, err := writeStructured(cmd.OutOrStdout(), view); ok {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ID\t%s\n", view.ID)
	_, _ = fmt.Fprintf(tw, "Type\t%s\n", view.Type)
	_, _ = fmt.Fprintf(tw, "Main class\t%s\n", view.MainClass)
	_, _ = fmt.Fprintf(tw, "Asset index\t%s\n", view.AssetIndex)
	_, _ = fmt.Fprintf(tw, "Libraries\t%d\n", view.Libraries)
	if view.ClientURL != "" {
		_, _ = fmt.Fprintf(tw, "Client\t%s\n", view.ClientURL)
	}
	return tw.Flush()
}
