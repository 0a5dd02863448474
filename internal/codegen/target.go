package codegen

// ModuleName is the identifier given to every module this program emits.
const ModuleName = "IR_function"

// Target describes the machine the emitted module is laid out for. The values
// are fixed literals and never derived from the host.
type Target struct {
	DataLayout string
	Triple     string
}

// DefaultTarget returns the 64-bit little-endian x86 Linux target.
func DefaultTarget() Target {
	return Target{
		DataLayout: "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-i128:128-f80:128-n8:16:32:64-S128",
		Triple:     "x86_64-pc-linux-gnu",
	}
}
