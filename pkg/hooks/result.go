package hooks

import (
	"github.com/Nitrolaunch/weld/pkg/protocol"
)

// OnInstanceSetupResult is the override struct returned from on_instance_setup.
// weld never overrides anything, so every field is left null or empty.
type OnInstanceSetupResult struct {
	MainClassOverride  *string  `json:"main_class_override"`
	JarPathOverride    *string  `json:"jar_path_override"`
	ClasspathExtension []string `json:"classpath_extension"`
	LoaderVersion      *string  `json:"loader_version"`
	JVMArgs            []string `json:"jvm_args"`
	GameArgs           []string `json:"game_args"`
}

// EmptyOnInstanceSetupResult returns a result that overrides nothing
func EmptyOnInstanceSetupResult() OnInstanceSetupResult {
	return OnInstanceSetupResult{
		ClasspathExtension: []string{},
		JVMArgs:            []string{},
		GameArgs:           []string{},
	}
}

// TerminalResult returns the set_result payload for hook
func TerminalResult(hook Name) interface{} {
	if hook == OnInstanceSetup {
		return EmptyOnInstanceSetupResult()
	}
	return protocol.Null
}
