package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/desertthunder/ytm/internal/shared"
)

// errPropertyUnavailable is the player's reply while a track is still
// loading and the property has no value yet.
var errPropertyUnavailable = errors.New("property unavailable")

// dialRetryInterval paces connection attempts while the player creates its
// socket.
const dialRetryInterval = 100 * time.Millisecond

// commandTimeout bounds a single request/response exchange.
const commandTimeout = 2 * time.Second

// IPC is a client for the player's line-delimited JSON control socket.
//
// One command is in flight at a time. Asynchronous event lines the player
// pushes between replies are skipped, so the first non-event line after a
// write is that write's reply.
type IPC struct {
	conn   net.Conn
	reader *bufio.Reader
}

// ipcResponse is one reply line. Event lines carry "event" instead of
// "error".
type ipcResponse struct {
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
	Event string          `json:"event"`
}

// DialIPC connects to a player control socket, retrying until the player has
// created it or the context ends.
//
// A freshly spawned player needs a moment before the socket exists, so the
// first attempts are expected to fail.
func DialIPC(ctx context.Context, socket string) (*IPC, error) {
	var lastErr error

	for {
		conn, err := net.Dial("unix", socket)
		if err == nil {
			return &IPC{conn: conn, reader: bufio.NewReader(conn)}, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", shared.ErrPlayerSocket, lastErr)
		case <-time.After(dialRetryInterval):
		}
	}
}

// Close closes the control connection.
func (c *IPC) Close() error {
	return c.conn.Close()
}

// command writes one command array and returns the reply's data payload.
func (c *IPC) command(args ...any) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]any{"command": args})
	if err != nil {
		return nil, fmt.Errorf("failed to encode command: %w", err)
	}

	deadline := time.Now().Add(commandTimeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlayerSocket, err)
	}

	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPlayerSocket, err)
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrPlayerSocket, err)
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode reply: %w", err)
		}
		if resp.Event != "" {
			continue
		}

		if resp.Error == errPropertyUnavailable.Error() {
			return nil, errPropertyUnavailable
		}
		if resp.Error != "success" {
			return nil, fmt.Errorf("player rejected command: %s", resp.Error)
		}

		return resp.Data, nil
	}
}

// TogglePause flips the pause state.
func (c *IPC) TogglePause() error {
	_, err := c.command("cycle", "pause")
	return err
}

// Pause sets the pause state explicitly.
func (c *IPC) Pause(paused bool) error {
	_, err := c.command("set_property", "pause", paused)
	return err
}

// Property reads a raw player property.
func (c *IPC) Property(name string) (json.RawMessage, error) {
	return c.command("get_property", name)
}

// Float reads a numeric property such as time-pos or duration.
//
// Properties are unavailable briefly during track load; that window reads as
// zero rather than an error.
func (c *IPC) Float(name string) (float64, error) {
	data, err := c.Property(name)
	if err != nil {
		if errors.Is(err, errPropertyUnavailable) {
			return 0, nil
		}
		return 0, err
	}
	if len(data) == 0 || string(data) == "null" {
		return 0, nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return 0, fmt.Errorf("unexpected %s payload: %w", name, err)
	}

	return value, nil
}

// Bool reads a boolean property such as pause.
func (c *IPC) Bool(name string) (bool, error) {
	data, err := c.Property(name)
	if err != nil {
		if errors.Is(err, errPropertyUnavailable) {
			return false, nil
		}
		return false, err
	}
	if len(data) == 0 || string(data) == "null" {
		return false, nil
	}

	var value bool
	if err := json.Unmarshal(data, &value); err != nil {
		return false, fmt.Errorf("unexpected %s payload: %w", name, err)
	}

	return value, nil
}
