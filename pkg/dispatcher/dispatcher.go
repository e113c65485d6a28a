// Package dispatcher runs one launcher hook invocation: it parses the hook
// argument, decides whether to weld, resolves the instance's pack directories,
// stages each of them and reports progress and the hook result to the launcher.
package dispatcher

import (
	"github.com/Nitrolaunch/weld/pkg/hooks"
	"github.com/Nitrolaunch/weld/pkg/logging"
	"github.com/Nitrolaunch/weld/pkg/protocol"
	"github.com/Nitrolaunch/weld/pkg/stager"
	"github.com/Nitrolaunch/weld/pkg/types"
	"github.com/rs/zerolog"
)

// Messages shown by the launcher
const (
	MsgWelding       = "Welding packs"
	MsgWelded        = "Packs welded"
	MsgFailed        = "Failed to weld packs:\n"
	MsgIncorrectHook = "Incorrect hook"
)

// Options configures a Dispatcher
type Options struct {
	Policy Policy
	// StagingDir overrides the staging directory name
	StagingDir string
	// ArchiveName overrides the policy archive name
	ArchiveName string
}

// Dispatcher handles hook invocations
type Dispatcher struct {
	fs      types.FS
	engine  stager.Engine
	emitter *protocol.Emitter
	opts    Options
	logger  zerolog.Logger
}

// New creates a Dispatcher
func New(fsys types.FS, engine stager.Engine, emitter *protocol.Emitter, opts Options) *Dispatcher {
	if opts.Policy.Name == "" {
		opts.Policy = NitroPolicy()
	}
	return &Dispatcher{
		fs:      fsys,
		engine:  engine,
		emitter: emitter,
		opts:    opts,
		logger:  logging.GetLogger("dispatcher"),
	}
}

// Policy returns the active policy
func (d *Dispatcher) Policy() Policy {
	return d.opts.Policy
}

// Run handles one invocation. The terminal result is emitted on every path.
// The returned error is non-nil only when the process should exit non-zero:
// an unparsable argument, or a failure the policy does not report.
func (d *Dispatcher) Run(inv hooks.Invocation) error {
	policy := d.opts.Policy
	result := hooks.TerminalResult(inv.Hook)

	d.logger.Debug().
		Str("hook", string(inv.Hook)).
		Str("policy", policy.Name).
		Msg("Dispatching hook")

	if !policy.Recognizes(inv.Hook) {
		d.logger.Info().Str("hook", string(inv.Hook)).Msg("Ignoring unhandled hook")
		d.emitter.Text(MsgIncorrectHook)
		d.emitter.SetResult(result)
		return nil
	}

	arg, err := hooks.ParseArgument(inv.Raw)
	if err != nil {
		d.logger.Error().Err(err).Msg("Invalid hook argument")
		d.emitter.Message(protocol.NewMessage(protocol.VariantError, MsgFailed+err.Error()))
		d.emitter.SetResult(result)
		return err
	}

	if decision := Decide(policy, inv.Hook, arg); decision.Skip {
		d.logger.Info().
			Str("hook", string(inv.Hook)).
			Str("reason", string(decision.Reason)).
			Msg("Skipping weld")
		d.emitter.SetResult(result)
		return nil
	}

	d.emitter.StartProcess()
	d.emitter.Message(protocol.NewMessage(protocol.VariantStartProcess, MsgWelding))

	if err := d.weld(arg); err != nil {
		d.logger.Error().Err(err).Str("hook", string(inv.Hook)).Msg("Weld failed")
		if !policy.ReportFailures {
			d.emitter.SetResult(result)
			return err
		}
		d.emitter.Message(protocol.NewMessage(protocol.VariantError, MsgFailed+err.Error()))
		d.emitter.EndProcess()
		d.emitter.SetResult(result)
		return nil
	}

	d.emitter.Message(protocol.NewMessage(protocol.VariantSuccess, MsgWelded))
	d.emitter.EndProcess()
	d.emitter.SetResult(result)
	return nil
}

func (d *Dispatcher) weld(arg *hooks.Argument) error {
	done := logging.LogOperationStart(d.logger, "weld")
	defer done()

	targets, err := Resolve(d.fs, d.opts.Policy, arg)
	if err != nil {
		return err
	}

	s := d.Stager(arg)
	ignore := arg.Config.WeldIgnore
	for _, target := range targets {
		d.logger.Debug().
			Str("dir", target.Dir).
			Str("kind", string(target.Kind)).
			Msg("Staging target")
		if err := s.Stage(target.Dir, ignore, target.Mode()); err != nil {
			return err
		}
	}

	d.logger.Info().Int("targets", len(targets)).Msg("Packs welded")
	return nil
}

// Stager builds the stager for an invocation. The instance's
// weld_distinguish_channels key overrides the policy.
func (d *Dispatcher) Stager(arg *hooks.Argument) *stager.Stager {
	policy := d.opts.Policy

	distinguish := policy.DistinguishChannels
	if arg != nil && arg.Config != nil && arg.Config.WeldDistinguishChannels != nil {
		distinguish = *arg.Config.WeldDistinguishChannels
	}

	archive := policy.ArchiveName
	if d.opts.ArchiveName != "" {
		archive = d.opts.ArchiveName
	}

	return stager.New(d.fs, d.engine, stager.Options{
		StagingDir:          d.opts.StagingDir,
		ArchiveName:         archive,
		RestoreIgnored:      policy.RestoreIgnored,
		DistinguishChannels: distinguish,
	})
}

// TargetReport is the status of one resolved target
type TargetReport struct {
	Target Target
	stager.Report
}

// Inspect resolves the targets of arg and reports their state without
// modifying anything
func (d *Dispatcher) Inspect(arg *hooks.Argument) ([]TargetReport, error) {
	targets, err := Resolve(d.fs, d.opts.Policy, arg)
	if err != nil {
		return nil, err
	}

	var ignore []string
	if arg.Config != nil {
		ignore = arg.Config.WeldIgnore
	}

	s := d.Stager(arg)
	reports := make([]TargetReport, 0, len(targets))
	for _, target := range targets {
		report, err := s.Inspect(target.Dir, ignore)
		if err != nil {
			return nil, err
		}
		reports = append(reports, TargetReport{Target: target, Report: report})
	}
	return reports, nil
}
