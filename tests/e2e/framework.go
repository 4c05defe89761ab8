//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"
)

const (
	defaultBinary    = "calculator-mcp"
	defaultLocalPort = 9100
	defaultTimeout   = 30 * time.Second
)

// TestConfig holds configuration and runtime state for e2e tests
type TestConfig struct {
	// Configuration
	Binary    string
	LocalPort int
	Timeout   time.Duration

	// Runtime state
	MCPURL    string
	server    *exec.Cmd
	cleanedUp bool
}

// NewTestConfig creates a new TestConfig with defaults or env overrides
func NewTestConfig() *TestConfig {
	binary := os.Getenv("CALCULATOR_MCP_BIN")
	if binary == "" {
		binary = defaultBinary
	}
	config := &TestConfig{
		Binary:    binary,
		LocalPort: defaultLocalPort,
		Timeout:   defaultTimeout,
	}
	fmt.Printf("Test config: binary=%s, port=%d, timeout=%v\n",
		config.Binary, config.LocalPort, config.Timeout)
	return config
}

// Setup starts calculator-mcp in HTTP mode unless CALCULATOR_MCP_URL points
// at an already running instance, then waits for it to become healthy.
func (c *TestConfig) Setup(ctx context.Context) error {
	if envURL := os.Getenv("CALCULATOR_MCP_URL"); envURL != "" {
		fmt.Printf("Using CALCULATOR_MCP_URL from environment: %s\n", envURL)
		c.MCPURL = envURL
	} else {
		c.MCPURL = fmt.Sprintf("http://127.0.0.1:%d", c.LocalPort)
		if err := c.startServer(); err != nil {
			return err
		}
	}

	if err := c.waitForReady(ctx, c.MCPURL+"/health"); err != nil {
		c.Cleanup()
		return fmt.Errorf("failed waiting for calculator-mcp: %w", err)
	}

	fmt.Printf("calculator-mcp is ready at %s\n", c.MCPURL)
	return nil
}

func (c *TestConfig) startServer() error {
	cmd := exec.Command(c.Binary, "--listen", fmt.Sprintf("127.0.0.1:%d", c.LocalPort), "--log-level", "debug")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", c.Binary, err)
	}
	c.server = cmd
	return nil
}

// Cleanup stops the server if it was started. Safe to call multiple times.
func (c *TestConfig) Cleanup() {
	if c.cleanedUp {
		return
	}
	c.cleanedUp = true
	if c.server != nil && c.server.Process != nil {
		_ = c.server.Process.Signal(os.Interrupt)
		done := make(chan struct{})
		go func() {
			_ = c.server.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(c.Timeout):
			_ = c.server.Process.Kill()
		}
	}
}

// waitForReady polls the target URL until it returns HTTP 200, timeout occurs, or context is cancelled
func (c *TestConfig) waitForReady(ctx context.Context, targetURL string) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	fmt.Printf("Waiting for %s to be ready (timeout: %v)\n", targetURL, c.Timeout)
	attempt := 0
	var lastErr error
	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.Canceled {
				return fmt.Errorf("cancelled waiting for %s", targetURL)
			}
			return fmt.Errorf("timeout waiting for %s to be ready (last error: %v)", targetURL, lastErr)
		case <-ticker.C:
			attempt++
			resp, err := http.Get(targetURL)
			if err != nil {
				lastErr = err
				fmt.Printf("Health check attempt %d failed: %v\n", attempt, err)
				continue
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				fmt.Printf("Health check succeeded after %d attempts\n", attempt)
				return nil
			}
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			fmt.Printf("Health check attempt %d: status=%d\n", attempt, resp.StatusCode)
		}
	}
}
