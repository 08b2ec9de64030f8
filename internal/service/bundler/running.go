package bundler

import (
	"context"
	"os"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/f1sh-bundler/internal/logger"
)

// runningProcesses returns the IDs of other processes whose executable is named name.
func runningProcesses(name string) ([]int, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	thisProcessID := os.Getpid()

	var found []int

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if !strings.EqualFold(process.Executable(), name) {
			continue
		}

		found = append(found, process.Pid())
	}

	return found, nil
}

// warnIfRunning logs a warning when the application is running, since Windows
// keeps its loaded DLLs locked and overwriting them fails.
func warnIfRunning(ctx context.Context, executable string) {
	pids, err := runningProcesses(executable)
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
		return
	}

	if len(pids) > 0 {
		logger.WarnKV(ctx, "Application is running, locked files may fail to copy",
			"executable", executable, "pids", pids)
	}
}
