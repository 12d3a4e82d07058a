package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command []any `json:"command"`
}

// ipcMessage is anything mpv writes back: a reply to a command or an event.
type ipcMessage struct {
	Event string `json:"event,omitempty"`
	Name  string `json:"name,omitempty"`
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`

	// Reason is set on end-file events.
	Reason string `json:"reason,omitempty"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
)

// sendCommand sends one JSON-IPC command to mpv over a fresh connection,
// retrying transient connection errors.
func sendCommand(socket string, command ...any) (any, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(socket, command)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var rejected *mpvError
		if errors.As(err, &rejected) {
			break
		}
	}

	return nil, fmt.Errorf("ipc command %v failed: %w", command[0], lastErr)
}

// mpvError is a command mpv received and refused. It is never retried.
type mpvError struct {
	reason string
}

func (e *mpvError) Error() string {
	return "mpv error: " + e.reason
}

func doSendCommand(socket string, command []any) (any, error) {
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(ipcCommand{Command: command})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv requires newline-delimited JSON
	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	// mpv broadcasts events to every client, so the reply may not be the first line.
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		if msg.Event != "" {
			continue
		}
		if msg.Error != "" && msg.Error != "success" {
			return nil, &mpvError{reason: msg.Error}
		}
		return msg.Data, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return nil, fmt.Errorf("read: connection closed before reply")
}
