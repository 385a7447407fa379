package application

import (
	"context"
	"testing"
)

func TestMockDefaults(t *testing.T) {
	m := &Mock{}

	c1, err := m.Client()
	if err != nil {
		t.Fatalf("Client() failed: %v", err)
	}
	t.Cleanup(func() { _ = c1.Close(context.Background()) })
	c2, _ := m.Client()
	if c1 != c2 {
		t.Error("Client() built a second catalog")
	}

	if got := m.OutputFormat(); got != "table" {
		t.Errorf("OutputFormat() = %q", got)
	}
	if got := m.Version(); got != "dev" {
		t.Errorf("Version() = %q", got)
	}
	if m.Logger() == nil {
		t.Error("Logger() returned nil")
	}

	m.VersionFunc = func() string { return "v1.2.0" }
	if got := m.Version(); got != "v1.2.0" {
		t.Errorf("Version() = %q", got)
	}
}
