//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package metric

import (
	"os"
	"sync"

	"github.com/shirou/gopsutil/v4/process"
)

var (
	selfOnce sync.Once
	self     *process.Process
)

func processCPUMillis() int64 {
	selfOnce.Do(func() {
		//nolint:gosec // G115: PIDs fit in int32.
		self, _ = process.NewProcess(int32(os.Getpid()))
	})
	if self == nil {
		return 0
	}
	return gopsutilCPUMillis(self)
}
