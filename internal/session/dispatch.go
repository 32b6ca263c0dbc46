package session

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// WorkerAPIKeyEnv carries the API key into a worker process. Keys never
// appear on the worker's command line.
const WorkerAPIKeyEnv = "CONSULTANT_WORKER_API_KEY"

// SessionsDirEnv points a worker at the creating process's sessions root.
const SessionsDirEnv = "CONSULTANT_SESSIONS_DIR"

// Dispatcher starts the worker for a freshly created session and returns
// the worker's process id.
type Dispatcher interface {
	Dispatch(ctx context.Context, id, dir string) (int, error)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, id, dir string) (int, error)

func (f DispatcherFunc) Dispatch(ctx context.Context, id, dir string) (int, error) {
	return f(ctx, id, dir)
}

// ProcessDispatcher re-executes a binary as a detached worker, one OS
// process per session.
type ProcessDispatcher struct {
	// Executable defaults to the running binary.
	Executable string
	// Args precede the session id on the worker command line.
	Args []string
	// APIKey is handed to the worker through WorkerAPIKeyEnv.
	APIKey string
	// SessionsRoot is handed to the worker through SessionsDirEnv.
	SessionsRoot string
}

func (d *ProcessDispatcher) command(id string) (*exec.Cmd, error) {
	exe := d.Executable
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locating executable: %w", err)
		}
	}

	args := append(append([]string{}, d.Args...), id)
	cmd := exec.Command(exe, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	env := os.Environ()
	if d.APIKey != "" {
		env = append(env, WorkerAPIKeyEnv+"="+d.APIKey)
	}
	if d.SessionsRoot != "" {
		env = append(env, SessionsDirEnv+"="+d.SessionsRoot)
	}
	cmd.Env = env
	return cmd, nil
}

// Dispatch starts the worker with stdout and stderr appended to the
// session's worker.log and releases it without waiting.
func (d *ProcessDispatcher) Dispatch(_ context.Context, id, dir string) (int, error) {
	cmd, err := d.command(id)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(filepath.Join(dir, WorkerLog), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("opening worker log: %w", err)
	}
	defer f.Close()
	cmd.Stdout = f
	cmd.Stderr = f
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting worker: %w", err)
	}
	pid := cmd.Process.Pid

	// The worker outlives this process; never Wait on it.
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("releasing worker %d: %w", pid, err)
	}
	return pid, nil
}
