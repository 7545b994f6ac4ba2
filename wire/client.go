// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wire provides transport-agnostic RPC client/server abstractions
// for the mcpwire benchmark suite. Application code programs against the
// Client and Server interfaces and selects a concrete transport by name,
// making transport choice a deployment decision rather than a code change.
package wire

import (
	"context"
)

// Client is the transport-agnostic RPC client interface. One Client owns
// exactly one logical connection; Close invalidates all outstanding and
// future calls on it.
type Client interface {
	// Call issues a request for method, encoding args and decoding the
	// response into reply with the configured codec. It blocks until the
	// server resolves the call or ctx is done.
	Call(ctx context.Context, method string, args, reply interface{}) error

	// CallRaw issues a request carrying a pre-encoded payload and returns
	// the raw response payload.
	CallRaw(ctx context.Context, method string, payload []byte) ([]byte, error)

	// Close closes the connection.
	Close() error
}

// Server is the transport-agnostic RPC server interface.
type Server interface {
	// RegisterRaw binds a handler to a method name. Registration must
	// happen before Serve.
	RegisterRaw(method string, handler RawHandler) error

	// Serve accepts and dispatches requests until ctx is cancelled or the
	// listener is closed.
	Serve(ctx context.Context) error

	// Close stops the server and closes any open connections.
	Close() error

	// Addr returns the server's listen address.
	Addr() string
}

// RawHandler handles one RPC call. The returned bytes become the response
// payload; a non-nil error is reported to the caller as a call failure.
type RawHandler func(ctx context.Context, payload []byte) ([]byte, error)

// Codec encodes and decodes call arguments and replies.
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte, v interface{}) error
}

// DialOption configures client connections.
type DialOption func(*dialOptions)

type dialOptions struct {
	codec     Codec
	transport string
}

// WithCodec sets a custom codec.
func WithCodec(c Codec) DialOption {
	return func(o *dialOptions) { o.codec = c }
}

// WithTransport selects the transport by name (see transport.go).
func WithTransport(t string) DialOption {
	return func(o *dialOptions) { o.transport = t }
}

// ServerOption configures servers.
type ServerOption func(*serverOptions)

type serverOptions struct {
	codec         Codec
	transport     string
	healthService string
	healthRepo    string
}

// WithServerCodec sets a custom codec for the server.
func WithServerCodec(c Codec) ServerOption {
	return func(o *serverOptions) { o.codec = c }
}

// WithServerTransport selects the transport by name for the server.
func WithServerTransport(t string) ServerOption {
	return func(o *serverOptions) { o.transport = t }
}

// WithHealthInfo sets the service name and repository identifier reported
// by the HTTP transport's /health endpoint. Other transports ignore it.
func WithHealthInfo(service, repo string) ServerOption {
	return func(o *serverOptions) {
		o.healthService = service
		o.healthRepo = repo
	}
}
