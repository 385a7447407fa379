package serve

import (
	"bytes"
	"context"
	gosync "sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/internal/server"
	"github.com/agentstation/confkit/pkg/logging"
)

// lockedBuffer is written by the listener goroutine while the test reads it.
type lockedBuffer struct {
	mu  gosync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testSettings() Settings {
	cfg := server.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.MetricsEnabled = false
	return Settings{Server: cfg}
}

func TestRunStopsWhenContextIsCancelled(t *testing.T) {
	log := logging.NewTestLogger(t)
	app := &application.Mock{LoggerFunc: func() *zerolog.Logger { return log.Logger }}

	ctx, cancel := context.WithCancel(context.Background())
	out := &lockedBuffer{}
	done := make(chan error, 1)
	go func() { done <- run(ctx, out, app, testSettings()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Contains(t, out.String(), "API server stopped gracefully")
	log.AssertContains(t, "Server stopped gracefully")
}

func TestRunRejectsInvalidServerConfig(t *testing.T) {
	s := testSettings()
	s.Server.PathPrefix = "api/"

	err := run(context.Background(), &lockedBuffer{}, &application.Mock{}, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating API server")
}

func TestFlagsOverrideSettings(t *testing.T) {
	log := logging.NewTestLogger(t)
	app := &application.Mock{LoggerFunc: func() *zerolog.Logger { return log.Logger }}

	settings := testSettings()
	settings.Server.Host = "0.0.0.0"
	settings.Server.Port = 9999
	cmd := NewCommand(app, func() Settings { return settings })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd.SetOut(&lockedBuffer{})
	cmd.SetErr(&lockedBuffer{})
	cmd.SetArgs([]string{"--host", "127.0.0.1", "--port", "0"})
	require.NoError(t, cmd.ExecuteContext(ctx))

	log.AssertContains(t, `"addr":"127.0.0.1:0"`)
	log.AssertContains(t, `"auto_sync":false`)
}

func TestCommandRejectsArguments(t *testing.T) {
	cmd := NewCommand(&application.Mock{}, testSettings)
	cmd.SetOut(&lockedBuffer{})
	cmd.SetErr(&lockedBuffer{})
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
