// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"runtime"
	"syscall"
)

// Win32 error codes that leave ReadDirectoryChangesW unusable.
const (
	errnoTooManyOpenFiles = syscall.Errno(4)
	errnoInvalidHandle    = syscall.Errno(6)
	errnoNotEnoughMemory  = syscall.Errno(8)
)

// isFatalFsnotifyError reports resource exhaustion the watcher cannot
// recover from: the inotify watch limit or file descriptor limits on Unix,
// handle or memory exhaustion on Windows.
func isFatalFsnotifyError(err error) bool {
	if runtime.GOOS == "windows" {
		return errors.Is(err, errnoTooManyOpenFiles) ||
			errors.Is(err, errnoInvalidHandle) ||
			errors.Is(err, errnoNotEnoughMemory)
	}
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
