package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Nitrolaunch/weld/pkg/config"
	"github.com/Nitrolaunch/weld/pkg/paths"
	"github.com/spf13/cobra"
)

func newGenconfigCmd(a *app) *cobra.Command {
	var commented, write, force bool

	cmd := &cobra.Command{
		Use:   "genconfig",
		Short: MsgGenconfigShort,
		Long:  MsgGenconfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return fmt.Errorf(MsgErrLoadConfig, err)
			}

			generate := config.Generate
			if commented {
				generate = config.GenerateCommented
			}
			content, err := generate(cfg)
			if err != nil {
				return err
			}

			if !write {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}

			target := paths.ConfigFile()
			if _, err := a.fs.Stat(target); err == nil && !force {
				return fmt.Errorf(MsgErrConfigFound, target)
			}
			if err := a.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf(MsgErrWriteConfig, err)
			}
			if err := a.fs.WriteFile(target, content, os.FileMode(0644)); err != nil {
				return fmt.Errorf(MsgErrWriteConfig, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&commented, "commented", false, MsgFlagCommented)
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)

	return cmd
}
