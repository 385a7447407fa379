package application

import (
	gosync "sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/confkit"
)

var _ Application = (*Mock)(nil)

// Mock is an Application for tests. Nil funcs fall back to an in-memory
// client created once per Mock, a nop logger, table output and a dev build.
//
//	ck, _ := confkit.New()
//	cmd := sessions.NewCommand(&application.Mock{
//	    ClientFunc: func() (confkit.Client, error) { return ck, nil },
//	})
type Mock struct {
	ClientFunc       func() (confkit.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string

	once      gosync.Once
	client    confkit.Client
	clientErr error
}

// Client implements Application.
func (m *Mock) Client() (confkit.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	m.once.Do(func() { m.client, m.clientErr = confkit.New() })
	return m.client, m.clientErr
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	nop := zerolog.Nop()
	return &nop
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() string {
	return or(m.OutputFormatFunc, "table")
}

// Version implements Application.
func (m *Mock) Version() string { return or(m.VersionFunc, "dev") }

// Commit implements Application.
func (m *Mock) Commit() string { return or(m.CommitFunc, "none") }

// Date implements Application.
func (m *Mock) Date() string { return or(m.DateFunc, "unknown") }

// BuiltBy implements Application.
func (m *Mock) BuiltBy() string { return or(m.BuiltByFunc, "test") }

func or(f func() string, fallback string) string {
	if f == nil {
		return fallback
	}
	return f()
}
