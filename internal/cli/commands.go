package cli

import (
	"io"

	"github.com/Nitrolaunch/weld/internal/version"
	"github.com/Nitrolaunch/weld/pkg/cobrax/topics"
	"github.com/Nitrolaunch/weld/pkg/config"
	"github.com/Nitrolaunch/weld/pkg/dispatcher"
	"github.com/Nitrolaunch/weld/pkg/filesystem"
	"github.com/Nitrolaunch/weld/pkg/hooks"
	"github.com/Nitrolaunch/weld/pkg/logging"
	"github.com/Nitrolaunch/weld/pkg/paths"
	"github.com/Nitrolaunch/weld/pkg/protocol"
	"github.com/Nitrolaunch/weld/pkg/types"
	"github.com/Nitrolaunch/weld/pkg/weld"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	configFile string
	policy     string
	base64     bool
}

// app carries what the commands share once flags are parsed
type app struct {
	fs   types.FS
	opts globalOptions
}

// NewRootCmd creates the root command on the real filesystem
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithFS(filesystem.NewOS())
}

// NewRootCmdWithFS creates the root command operating on fsys
func NewRootCmdWithFS(fsys types.FS) *cobra.Command {
	a := &app{fs: fsys}

	rootCmd := &cobra.Command{
		Use:     "weld <hook> <argument>",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(2),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// File logging is attached once the config is known
			logging.SetupLogger(a.opts.verbosity, "")
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runHook(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&a.opts.policy, "policy", "", MsgFlagPolicy)
	rootCmd.PersistentFlags().BoolVar(&a.opts.base64, "base64", false, MsgFlagBase64)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newGenconfigCmd(a))

	if _, err := topics.Initialize(rootCmd, helpTopics(), topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to load help topics")
	}

	return rootCmd
}

// loadConfig layers the config files, env and changed flags, then attaches
// the log file when enabled
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := map[string]interface{}{}
	if f := cmd.Flags().Lookup("policy"); f != nil && f.Changed {
		overrides["policy"] = a.opts.policy
	}
	if f := cmd.Flags().Lookup("base64"); f != nil && f.Changed {
		overrides["protocol.base64"] = a.opts.base64
	}

	cfg, err := config.Load(config.LoadOptions{
		UserFile:  paths.ConfigFile(),
		File:      a.opts.configFile,
		Overrides: overrides,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Log.File {
		logging.SetupLogger(a.opts.verbosity, paths.LogFile())
	}
	return cfg, nil
}

// newDispatcher builds the merge engine and dispatcher described by cfg
func (a *app) newDispatcher(cfg *config.Config, out io.Writer) (*dispatcher.Dispatcher, error) {
	policy, err := dispatcher.PolicyByName(cfg.Policy)
	if err != nil {
		return nil, err
	}

	engine := weld.NewEngine(a.fs, weld.Options{
		Compression: cfg.Merge.Compression,
		MergeTags:   cfg.Merge.TagMerge,
		MergeLang:   cfg.Merge.LangMerge,
		Description: cfg.Merge.Description,
	})
	emitter := protocol.NewEmitter(out, protocol.Options{
		Sentinel: cfg.Protocol.Sentinel,
		Base64:   cfg.Protocol.Base64,
	})

	return dispatcher.New(a.fs, engine, emitter, dispatcher.Options{
		Policy:      policy,
		StagingDir:  cfg.StagingDir,
		ArchiveName: cfg.ArchiveName,
	}), nil
}

// runHook handles "weld <hook> <argument>"
func (a *app) runHook(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	inv, err := hooks.NewInvocation(args)
	if err == nil {
		var cfg *config.Config
		if cfg, err = a.loadConfig(cmd); err == nil {
			var d *dispatcher.Dispatcher
			if d, err = a.newDispatcher(cfg, out); err == nil {
				return d.Run(inv)
			}
		}
	}

	// The launcher still gets a result when weld cannot start
	log.Error().Err(err).Str("hook", string(inv.Hook)).Msg("Failed to start weld")
	emitter := protocol.NewEmitter(out, protocol.Options{Base64: a.opts.base64})
	emitter.Message(protocol.NewMessage(protocol.VariantError, dispatcher.MsgFailed+err.Error()))
	emitter.SetResult(hooks.TerminalResult(inv.Hook))
	return err
}
