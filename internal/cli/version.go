package cli

import (
	"fmt"

	"github.com/Nitrolaunch/weld/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "unknown" {
				fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "unknown" {
				fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
		},
	}
}
