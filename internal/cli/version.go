package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version information for mcsync",
		Run:   runVersion,
	}

	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "mcsync version %s\n", Version)
	_, _ = fmt.Fprintf(w, "Build date: %s\n", BuildDate)
	_, _ = fmt.Fprintf(w, "Git commit: %s\n", GitCommit)
}
