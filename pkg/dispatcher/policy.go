package dispatcher

import (
	"sort"

	"github.com/Nitrolaunch/weld/pkg/errors"
	"github.com/Nitrolaunch/weld/pkg/hooks"
	"github.com/Nitrolaunch/weld/pkg/stager"
)

// Policy names accepted by PolicyByName
const (
	PolicyLegacy = "legacy"
	PolicyNitro  = "nitro"
)

// Policy captures the behavioral differences between plugin generations.
// Every branch in the dispatcher and stager that differs between them reads
// a field here instead of checking the generation.
type Policy struct {
	Name            string
	RecognizedHooks []hooks.Name

	// DeferOnFullDepth skips on_instance_setup during full updates, leaving
	// the weld to after_packages_installed
	DeferOnFullDepth bool
	// SkipShallow skips shallow updates
	SkipShallow bool
	// RequireGameDir skips invocations without a game directory
	RequireGameDir bool
	// DistinguishChannels saves assets for resourcepack directories
	// instead of always saving data
	DistinguishChannels bool
	// RestoreIgnored moves newly ignored packs out of the staging directory
	RestoreIgnored bool
	// RequireExistingSaveDatapacks only targets saves with a datapacks directory
	RequireExistingSaveDatapacks bool
	// ReportFailures turns errors into protocol messages instead of a
	// non-zero exit
	ReportFailures bool

	ArchiveName string
}

// LegacyPolicy reproduces the first plugin generation
func LegacyPolicy() Policy {
	return Policy{
		Name:            PolicyLegacy,
		RecognizedHooks: []hooks.Name{hooks.OnInstanceSetup},
		SkipShallow:     true,
		ArchiveName:     stager.LegacyArchiveName,
	}
}

// NitroPolicy is the current plugin behavior
func NitroPolicy() Policy {
	return Policy{
		Name: PolicyNitro,
		RecognizedHooks: []hooks.Name{
			hooks.OnInstanceSetup,
			hooks.AfterPackagesInstalled,
			hooks.UpdateWorldFiles,
		},
		DeferOnFullDepth:             true,
		RequireGameDir:               true,
		DistinguishChannels:          true,
		RestoreIgnored:               true,
		RequireExistingSaveDatapacks: true,
		ReportFailures:               true,
		ArchiveName:                  stager.DefaultArchiveName,
	}
}

var policies = map[string]func() Policy{
	PolicyLegacy: LegacyPolicy,
	PolicyNitro:  NitroPolicy,
}

// PolicyByName returns a preset policy. An empty name selects nitro.
func PolicyByName(name string) (Policy, error) {
	if name == "" {
		return NitroPolicy(), nil
	}
	fn, ok := policies[name]
	if !ok {
		return Policy{}, errors.Newf(errors.ErrConfigValid, "unknown policy %q", name).
			WithDetail("available", PolicyNames())
	}
	return fn(), nil
}

// PolicyNames lists the preset policy names
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recognizes reports whether the policy handles hook
func (p Policy) Recognizes(hook hooks.Name) bool {
	for _, h := range p.RecognizedHooks {
		if h == hook {
			return true
		}
	}
	return false
}
