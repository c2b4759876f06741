package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/dashsync"
)

var _ Application = (*Mock)(nil)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    ClientFunc: func(opts ...dashsync.Option) (dashsync.Syncer, error) {
//	        return dashsync.New(append([]dashsync.Option{dashsync.WithURL(srv.URL)}, opts...)...)
//	    },
//	}
//	cmd := push.NewCommand(mock)
type Mock struct {
	ClientFunc       func(opts ...dashsync.Option) (dashsync.Syncer, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

// Client returns a client using the mock function or nil.
func (m *Mock) Client(opts ...dashsync.Option) (dashsync.Syncer, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(opts...)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}
