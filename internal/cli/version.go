package cli

import (
	"github.com/spf13/cobra"
)

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := NewOutput(cmd)
			if out.IsJSON() {
				out.JSON(map[string]string{"version": Version, "build_date": BuildDate})
				return
			}
			out.Printf("stonkalerts %s (built %s)\n", Version, BuildDate)
		},
	}
}
