package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile keeps a single service instance per pid path
type PIDFile struct {
	path string
}

// New creates a PIDFile for path
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the pid file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire records the current process. It fails while another live process
// holds the file; stale or unreadable pids are replaced.
func (p *PIDFile) Acquire() error {
	if pid, ok := p.holder(); ok && pid != os.Getpid() && isProcessRunning(pid) {
		return fmt.Errorf("service is already running (PID %d)", pid)
	}

	if err := os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the pid file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// KillExisting terminates the process holding the file, if any, and removes it
func (p *PIDFile) KillExisting() error {
	pid, ok := p.holder()
	if !ok {
		return p.Release()
	}
	if pid != os.Getpid() && isProcessRunning(pid) {
		process, err := os.FindProcess(pid)
		if err != nil {
			return err
		}
		if err := process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to stop PID %d: %w", pid, err)
		}
	}
	return p.Release()
}

func (p *PIDFile) holder() (int, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// isProcessRunning probes pid with signal 0; EPERM still means alive
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
