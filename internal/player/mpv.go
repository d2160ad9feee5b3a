package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytm/internal/shared"
)

// MPV launches external player processes with a JSON IPC control socket.
//
// Any binary that understands mpv's --input-ipc-server protocol works here;
// the binary name and extra flags come from [shared.PlayerConfig].
type MPV struct {
	binary string
	flags  []string
	logger *log.Logger
}

// NewMPV creates a launcher from player configuration.
func NewMPV(config shared.PlayerConfig, logger *log.Logger) *MPV {
	binary := config.Binary
	if binary == "" {
		binary = "mpv"
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &MPV{binary: binary, flags: config.Flags, logger: logger}
}

// Handle is one running player process and its control socket path.
type Handle struct {
	cmd    *exec.Cmd
	socket string
	done   chan error
}

// Start spawns the player for a stream target.
//
// The process gets a fresh socket path under the OS temp directory and its
// stdout/stderr are discarded; all feedback flows through the socket.
func (m *MPV) Start(ctx context.Context, target string) (*Handle, error) {
	socket := filepath.Join(os.TempDir(), "ytm-mpv-"+shared.GenerateID()+".sock")

	cmd := exec.CommandContext(ctx, m.binary, m.args(socket, target)...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s not found in PATH, install it or set [player] binary in config.toml", shared.ErrPlayerStart, m.binary)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrPlayerStart, err)
	}

	m.logger.Debug("started player", "binary", m.binary, "pid", cmd.Process.Pid, "socket", socket)

	handle := &Handle{cmd: cmd, socket: socket, done: make(chan error, 1)}
	go func() {
		handle.done <- cmd.Wait()
		os.Remove(socket)
	}()

	return handle, nil
}

// args assembles the player argv for a socket and target.
func (m *MPV) args(socket, target string) []string {
	args := []string{
		"--input-ipc-server=" + socket,
		"--really-quiet",
	}
	args = append(args, m.flags...)
	args = append(args, target)

	return args
}

// Socket returns the control socket path for this process.
func (h *Handle) Socket() string {
	return h.socket
}

// Done delivers the process exit error (nil for a clean exit) exactly once.
func (h *Handle) Done() <-chan error {
	return h.done
}

// Stop kills the player process. Safe on a handle whose process has already
// exited.
func (h *Handle) Stop() {
	if h.cmd != nil && h.cmd.Process != nil {
		h.cmd.Process.Kill()
	}
}
