package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/mcsync/pkg/assets"
)

type assetsView struct {
	Passes     int    `json:"passes" yaml:"passes"`
	Fetched    int    `json:"fetched" yaml:"fetched"`
	Verified   int    `json:"verified" yaml:"verified"`
	TotalCount int    `json:"totalCount" yaml:"total_count"`
	TotalSize  uint64 `json:"totalSize" yaml:"total_size"`
}

// NewAssetsCmd creates the assets command.
func NewAssetsCmd() *cobra.Command {
	var maxPasses int

	cmd := &cobra.Command{
		Use:   "assets VERSION",
		Short: "Synchronize the asset store of a version",
		Long: `Fetch the asset index of a version and make sure every object it lists is
present under assets/objects with the right digest. Missing or corrupt objects
are fetched again until the store converges or the retry policy gives up.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssets(cmd, args[0], maxPasses)
		},
	}

	cmd.Flags().IntVar(&maxPasses, "max-passes", -1, "Give up after this many passes (0=unlimited, default from config)")

	return cmd
}

func runAssets(cmd *cobra.Command, id string, maxPasses int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if maxPasses >= 0 {
		cfg.Settings.MaxPasses = maxPasses
	}
	c := newComponents(cfg, progressHooks(cmd.ErrOrStderr()))

	desc, err := c.versions.GetVersion(cmd.Context(), id, cfg.VersionsDir())
	if err != nil {
		return fmt.Errorf("failed to resolve version %s: %w", id, err)
	}
	stats, err := c.assets.Sync(cmd.Context(), c.root(), desc)
	if err != nil {
		return fmt.Errorf("asset synchronization failed after %d passes: %w", stats.Passes, err)
	}
	return writeAssetStats(cmd, stats)
}

func writeAssetStats(cmd *cobra.Command, stats assets.Stats) error {
	view := assetsView{
		Passes:     stats.Passes,
		Fetched:    stats.Fetched,
		Verified:   stats.Verified,
		TotalCount: stats.TotalCount,
		TotalSize:  uint64(stats.TotalSize),
	}
	if ok, err := writeStructured(cmd.OutOrStdout(), view); ok {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d assets (%s) in sync after %d passes, %d fetched\n",
		view.TotalCount, humanize.Bytes(view.TotalSize), view.Passes, view.Fetched)
	return err
}
