package mpv

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mediasurface/mediasurface/constant"
	"github.com/mediasurface/mediasurface/log"
)

const (
	socketPollDelay = 100 * time.Millisecond
	quitTimeout     = 3 * time.Second
)

// process is one running mpv instance with its IPC socket.
type process struct {
	socket string
	cmd    *exec.Cmd
	exited chan struct{}
}

// baseArgs are passed to every instance ahead of the user's extra arguments.
// mpv.conf is respected otherwise: no --vo, --profile or --hwdec here.
func baseArgs(socket string) []string {
	return []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socket),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=always",
		"--volume-max=200",
	}
}

func socketPath(dir string) (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate socket name: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%x.sock", constant.App, randomBytes)), nil
}

// startProcess launches binary in idle mode and waits up to wait for its socket.
func startProcess(binary string, extra []string, dir string, wait time.Duration) (*process, error) {
	socket, err := socketPath(dir)
	if err != nil {
		return nil, err
	}

	args := append(baseArgs(socket), extra...)

	cmd := exec.Command(binary, args...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	p := &process{
		socket: socket,
		cmd:    cmd,
		exited: make(chan struct{}),
	}

	// reap the process so it never lingers as a zombie
	go func() {
		_ = cmd.Wait()
		close(p.exited)
	}()

	if err := p.waitForSocket(wait); err != nil {
		select {
		case <-p.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(cmd)
		}
		return nil, fmt.Errorf("mpv socket not ready: %w", err)
	}

	return p, nil
}

// waitForSocket polls until the IPC socket accepts connections.
func (p *process) waitForSocket(wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		time.Sleep(socketPollDelay)

		select {
		case <-p.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", p.socket)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %s", p.socket, wait)
}

// close asks mpv to quit, kills it if it does not, and removes the socket.
func (p *process) close() {
	_, _ = sendCommand(p.socket, "quit")

	select {
	case <-p.exited:
	case <-time.After(quitTimeout):
		log.Warnf("mpv did not quit within %s, killing it", quitTimeout)
		_ = killProcess(p.cmd)
	}

	_ = os.Remove(p.socket)
}

// sanitizeMediaTarget validates a location before it reaches mpv's command line or loadfile.
// Locations starting with '-' would be parsed as flags.
func sanitizeMediaTarget(location string) (string, error) {
	l := strings.TrimSpace(location)
	if l == "" {
		return "", fmt.Errorf("empty location")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in location")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("location must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}
