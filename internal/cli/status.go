package cli

import (
	"io"

	"github.com/Nitrolaunch/weld/pkg/dispatcher"
	"github.com/Nitrolaunch/weld/pkg/hooks"
	"github.com/Nitrolaunch/weld/pkg/ui"
	"github.com/spf13/cobra"
)

type statusOptions struct {
	side           string
	datapackFolder string
	ignore         []string
	format         string
}

func newStatusCmd(a *app) *cobra.Command {
	var opts statusOptions

	cmd := &cobra.Command{
		Use:   "status <game_dir>",
		Short: MsgStatusShort,
		Long:  MsgStatusLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ui.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			d, err := a.newDispatcher(cfg, io.Discard)
			if err != nil {
				return err
			}

			arg := opts.argument(args[0])
			reports, err := d.Inspect(arg)
			if err != nil {
				return err
			}

			view := ui.StatusView{
				GameDir: args[0],
				Policy:  d.Policy().Name,
				Archive: d.Stager(arg).Options().ArchiveName,
				Targets: targetViews(reports),
			}
			return ui.RenderStatus(cmd.OutOrStdout(), format, view)
		},
	}

	cmd.Flags().StringVar(&opts.side, "side", string(hooks.SideClient), MsgFlagSide)
	cmd.Flags().StringVar(&opts.datapackFolder, "datapack-folder", "", MsgFlagDatapackFolder)
	cmd.Flags().StringArrayVar(&opts.ignore, "ignore", nil, MsgFlagIgnore)
	cmd.Flags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	return cmd
}

// argument builds the hook argument the launcher would send for this instance
func (o statusOptions) argument(gameDir string) *hooks.Argument {
	instance := &hooks.InstanceConfig{WeldIgnore: o.ignore}
	if o.datapackFolder != "" {
		folder := o.datapackFolder
		instance.DatapackFolder = &folder
	}
	return &hooks.Argument{
		UpdateDepth: hooks.DepthFull,
		GameDir:     &gameDir,
		Side:        hooks.Side(o.side),
		Config:      instance,
	}
}

func targetViews(reports []dispatcher.TargetReport) []ui.TargetView {
	views := make([]ui.TargetView, 0, len(reports))
	for _, r := range reports {
		files := make([]ui.FileView, 0, len(r.Files))
		for _, f := range r.Files {
			files = append(files, ui.FileView{Name: f.Name, State: string(f.State)})
		}
		views = append(views, ui.TargetView{
			Dir:        r.Target.Dir,
			Kind:       string(r.Target.Kind),
			Exists:     r.Exists,
			HasStaging: r.HasStaging,
			Files:      files,
		})
	}
	return views
}
