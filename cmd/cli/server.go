package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const (
	serverBinaryName   = "parser-server"
	serverStartTimeout = 10 * time.Second
	serverPollInterval = 200 * time.Millisecond
)

// isServerRunning checks if the server is responding to health checks
func isServerRunning() bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get(serverURL + "/api/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// findServerBinary locates the parser-server binary
func findServerBinary() (string, error) {
	// Same directory as the CLI binary wins
	execPath, err := os.Executable()
	if err == nil {
		serverPath := filepath.Join(filepath.Dir(execPath), serverBinaryName)
		if _, err := os.Stat(serverPath); err == nil {
			return serverPath, nil
		}
	}

	if serverPath, err := exec.LookPath(serverBinaryName); err == nil {
		return serverPath, nil
	}

	commonPaths := []string{
		"/usr/local/bin/" + serverBinaryName,
		"/usr/bin/" + serverBinaryName,
		filepath.Join(os.Getenv("HOME"), "go/bin", serverBinaryName),
		filepath.Join(os.Getenv("HOME"), ".local/bin", serverBinaryName),
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%s binary not found", serverBinaryName)
}

// startServerBackground starts the server as a detached background process
func startServerBackground() error {
	serverPath, err := findServerBinary()
	if err != nil {
		return err
	}

	cmd := exec.Command(serverPath)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	// Detach from the terminal so the server outlives this invocation
	setSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	go func() {
		cmd.Wait()
	}()

	return nil
}

// waitForServerReady polls the server until it's ready or timeout
func waitForServerReady() error {
	deadline := time.Now().Add(serverStartTimeout)

	for time.Now().Before(deadline) {
		if isServerRunning() {
			return nil
		}
		time.Sleep(serverPollInterval)
	}

	return fmt.Errorf("server did not start within %v", serverStartTimeout)
}

// ensureServerRunning checks if server is running, starts it if not
func ensureServerRunning() error {
	if isServerRunning() {
		return nil
	}

	fmt.Println("Server not running, starting...")

	if err := startServerBackground(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	if err := waitForServerReady(); err != nil {
		return err
	}

	fmt.Println("Server started successfully")
	return nil
}
