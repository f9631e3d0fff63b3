package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/ministatus/internal/errors"
	"golang.org/x/sys/unix"
)

const filePerm = 0o600

// Write writes the current process ID to path, refusing to overwrite the PID
// file of a process that is still alive.
func Write(path string) error {
	errFactory := errors.New()

	if running, err := Read(path); err == nil && alive(running) {
		return errFactory.WithData(errors.ErrAlreadyRunning, running)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), filePerm)
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Read returns the process ID stored in path.
func Read(path string) (int, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errFactory.Wrap(errors.ErrNotRunning, err)
		}
		return 0, errFactory.Wrap(errors.ErrInternal, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, errFactory.WithData(errors.ErrInternal, strings.TrimSpace(string(data)))
	}

	return pid, nil
}

// Signal delivers sig to the process recorded in path.
func Signal(path string, sig unix.Signal) error {
	errFactory := errors.New()

	pid, err := Read(path)
	if err != nil {
		return err
	}

	if err := unix.Kill(pid, sig); err != nil {
		if err == unix.ESRCH {
			return errFactory.WithData(errors.ErrNotRunning, pid)
		}
		return errFactory.Wrap(errors.ErrOperationFailed, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove(path string) error {
	errFactory := errors.New()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func alive(pid int) bool {
	// EPERM still means the process exists
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
