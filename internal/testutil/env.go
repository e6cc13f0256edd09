// Package testutil holds helpers for tests that run a real server.
package testutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// IsolatedConfig is a config file with every upstream disabled, so tests
// never reach real credentials from the environment.
const IsolatedConfig = `
retail:
  project_id: ""
llm_providers:
  gemini:
    type: gemini
    enabled: false
storefront:
  endpoint: ""
  token: ""
`

// ServerConfig returns configuration values for creating a test server.
// This avoids importing the server package directly.
type ServerConfig struct {
	Host       string
	Port       string
	HomeDir    string
	ConfigFile string
	Logger     *slog.Logger
}

// NewServerConfig creates configuration for a test server on a free port
// with an isolated config file.
func NewServerConfig(t *testing.T) ServerConfig {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	tempDir := t.TempDir()

	httpPort, err := FindFreePort()
	if err != nil {
		t.Fatalf("failed to find free port for HTTP: %v", err)
	}

	configFile := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configFile, []byte(IsolatedConfig), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return ServerConfig{
		Host:       "127.0.0.1",
		Port:       httpPort,
		HomeDir:    tempDir,
		ConfigFile: configFile,
		Logger:     logger,
	}
}

// URL returns the server URL for the given config.
func (c ServerConfig) URL() string {
	return fmt.Sprintf("http://%s", net.JoinHostPort(c.Host, c.Port))
}

// WaitForServer polls the /status endpoint until services report running.
func WaitForServer(url string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if status, err := getStatus(client, url); err == nil && status.Server == "running" {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server not ready after %v", timeout)
}

// WaitForShutdown waits for a channel to receive a value or timeout.
func WaitForShutdown(done <-chan error, timeout time.Duration) error {
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for shutdown")
	}
}

// FindFreePort finds an available TCP port and returns it as a string.
func FindFreePort() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer listener.Close()
	return fmt.Sprintf("%d", listener.Addr().(*net.TCPAddr).Port), nil
}

// StatusResponse matches the fields of the server's status response
// that tests inspect.
type StatusResponse struct {
	Server    string `json:"server"`
	Providers struct {
		LLM []string `json:"llm"`
	} `json:"providers"`
	Retail struct {
		Configured bool `json:"configured"`
	} `json:"retail"`
	Storefront string `json:"storefront"`
}

// GetStatus fetches the /status endpoint and returns the parsed response.
func GetStatus(url string) (*StatusResponse, error) {
	return getStatus(&http.Client{Timeout: 5 * time.Second}, url)
}

func getStatus(client *http.Client, url string) (*StatusResponse, error) {
	resp, err := client.Get(url + "/status")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
