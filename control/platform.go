// File: control/platform.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime and CPU debug probes.

package control

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// RegisterPlatformProbes sets runtime and CPU debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.goroutines", func() any {
		return runtime.NumGoroutine()
	})
	dp.RegisterProbe("platform.cache_line_pad", func() any {
		return int(unsafe.Sizeof(cpu.CacheLinePad{}))
	})
}
