package runtime

import "os"

// args is the command-line argument list: lazily constructed on first
// access, process-lifetime-stable afterward. argsBuilt guards the
// one-time build under
// globalMu so two goroutines racing CmdlineArgs() on first access don't
// each build their own copy.
var (
	args      []String
	argsBuilt bool
)

// CmdlineArgs returns the process's command-line arguments as runtime
// String values, building the slice from os.Args on first call and
// reusing it on every subsequent call.
func CmdlineArgs() []String {
	globalMu.Lock()
	defer globalMu.Unlock()
	if !argsBuilt {
		args = make([]String, len(os.Args))
		for i, a := range os.Args {
			args[i] = String(a)
		}
		argsBuilt = true
	}
	return args
}

// ResetCmdlineArgsForTest clears the cached args slice so tests can
// exercise the lazy-build path deterministically. Emitted code never
// calls this.
func ResetCmdlineArgsForTest() {
	globalMu.Lock()
	defer globalMu.Unlock()
	args = nil
	argsBuilt = false
}
