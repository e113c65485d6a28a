package dispatcher

import (
	"github.com/Nitrolaunch/weld/pkg/hooks"
)

// SkipReason explains why an invocation does not weld
type SkipReason string

const (
	ReasonUnknownHook   SkipReason = "hook is not handled"
	ReasonDeferred      SkipReason = "full update, welding after packages are installed"
	ReasonShallowUpdate SkipReason = "shallow update"
	ReasonDisabled      SkipReason = "disable_weld is set"
	ReasonNoGameDir     SkipReason = "no game directory"
)

// Decision is the outcome of Decide
type Decision struct {
	Skip   bool
	Reason SkipReason
}

// Proceed is the decision to weld
func Proceed() Decision {
	return Decision{}
}

// Skip is the decision not to weld
func Skip(reason SkipReason) Decision {
	return Decision{Skip: true, Reason: reason}
}

// Decide applies the skip conditions of policy, in order. It has no side effects.
func Decide(policy Policy, hook hooks.Name, arg *hooks.Argument) Decision {
	if !policy.Recognizes(hook) {
		return Skip(ReasonUnknownHook)
	}
	if policy.DeferOnFullDepth && hook == hooks.OnInstanceSetup && arg.UpdateDepth == hooks.DepthFull {
		return Skip(ReasonDeferred)
	}
	if policy.SkipShallow && arg.UpdateDepth == hooks.DepthShallow {
		return Skip(ReasonShallowUpdate)
	}
	if arg.Config != nil && arg.Config.DisableWeld {
		return Skip(ReasonDisabled)
	}
	if policy.RequireGameDir && !arg.HasGameDir() {
		return Skip(ReasonNoGameDir)
	}
	return Proceed()
}
