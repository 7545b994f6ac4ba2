// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"context"
	"fmt"
	"net"
)

// Dial connects to an RPC server. The frame transport is used unless
// WithTransport selects another.
func Dial(ctx context.Context, addr string, opts ...DialOption) (Client, error) {
	o := &dialOptions{transport: DefaultTransport}
	for _, opt := range opts {
		opt(o)
	}
	dial, _, ok := lookupTransport(o.transport)
	if !ok {
		return nil, fmt.Errorf("unknown transport: %s (available: %v)", o.transport, AvailableTransports())
	}
	return dial(ctx, addr, o)
}

// Listen creates an RPC server on addr. The frame transport is used unless
// WithServerTransport selects another.
func Listen(addr string, opts ...ServerOption) (Server, error) {
	o := &serverOptions{transport: DefaultTransport}
	for _, opt := range opts {
		opt(o)
	}
	_, listen, ok := lookupTransport(o.transport)
	if !ok {
		return nil, fmt.Errorf("unknown transport: %s (available: %v)", o.transport, AvailableTransports())
	}
	return listen(addr, o)
}

func dialFrame(ctx context.Context, addr string, o *dialOptions) (Client, error) {
	conn, err := FrameDial(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &frameClient{conn: conn, codec: o.codec}, nil
}

func listenFrame(addr string, o *serverOptions) (Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &frameServer{
		listener: listener,
		handlers: make(map[string]RawHandler),
	}
	s.server = NewFrameServer(listener, FrameHandlerFunc(s.dispatch))
	return s, nil
}

// frameClient implements Client over a FrameConn.
type frameClient struct {
	conn  *FrameConn
	codec Codec
}

func (c *frameClient) Call(ctx context.Context, method string, args, reply interface{}) error {
	codec := c.codec
	if codec == nil {
		codec = defaultCodec
	}

	var payload []byte
	if args != nil {
		var err error
		payload, err = codec.Encode(args)
		if err != nil {
			return fmt.Errorf("encode args: %w", err)
		}
	}

	resp, err := c.conn.Call(ctx, method, payload)
	if err != nil {
		return err
	}

	if reply != nil && len(resp) > 0 {
		if err := codec.Decode(resp, reply); err != nil {
			return fmt.Errorf("decode reply: %w", err)
		}
	}
	return nil
}

func (c *frameClient) CallRaw(ctx context.Context, method string, payload []byte) ([]byte, error) {
	return c.conn.Call(ctx, method, payload)
}

func (c *frameClient) Close() error {
	return c.conn.Close()
}

// frameServer implements Server over a FrameServer, dispatching by method
// name to registered raw handlers.
type frameServer struct {
	listener net.Listener
	handlers map[string]RawHandler
	server   *FrameServer
}

func (s *frameServer) RegisterRaw(method string, handler RawHandler) error {
	if _, dup := s.handlers[method]; dup {
		return fmt.Errorf("method already registered: %s", method)
	}
	s.handlers[method] = handler
	return nil
}

func (s *frameServer) dispatch(ctx context.Context, method string, payload []byte) ([]byte, error) {
	handler, ok := s.handlers[method]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", method)
	}
	return handler(ctx, payload)
}

func (s *frameServer) Serve(ctx context.Context) error {
	return s.server.Serve(ctx)
}

func (s *frameServer) Close() error {
	return s.server.Close()
}

func (s *frameServer) Addr() string {
	return s.listener.Addr().String()
}
