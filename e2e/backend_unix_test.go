//go:build e2e && unix

package main

import (
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"time"
)

// backend is a mock-api subprocess owned by a single test
type backend struct {
	cmd *exec.Cmd
	url string
}

func (b *backend) stop() {
	if b.cmd != nil && b.cmd.Process != nil {
		_ = b.cmd.Process.Kill()
		_, _ = b.cmd.Process.Wait()
	}
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// StartBackend runs the mock backend with seed appointments and waits for
// its health endpoint
func (tf *TUITestFramework) StartBackend(seed int) error {
	if tf.workspace == "" {
		if _, err := tf.CreateTestWorkspace(); err != nil {
			return err
		}
	}
	port, err := freePort()
	if err != nil {
		return fmt.Errorf("finding free port: %w", err)
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	cmd := exec.Command(binPath, "mock-api",
		"--addr", addr,
		"--seed", fmt.Sprint(seed),
		"--pretty=false",
		"--config", tf.ConfigPath(),
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting mock backend: %w", err)
	}
	b := &backend{cmd: cmd, url: "http://" + addr}

	client := &http.Client{Timeout: 200 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(b.url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				tf.backend = b
				return nil
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	b.stop()
	return fmt.Errorf("mock backend on %s never became healthy", addr)
}

// RunCLI runs a one-shot clinicbook subcommand against the test backend
func (tf *TUITestFramework) RunCLI(args ...string) (string, error) {
	tf.t.Helper()
	if tf.workspace == "" {
		if _, err := tf.CreateTestWorkspace(); err != nil {
			return "", err
		}
	}
	if tf.backend == nil {
		if err := tf.StartBackend(23); err != nil {
			return "", err
		}
	}
	args = append(args, "--config", tf.ConfigPath(), "--api", tf.backend.url)
	out, err := exec.Command(binPath, args...).CombinedOutput()
	return string(out), err
}
