//go:build grpc

// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

func init() {
	// Registered only when built with -tags grpc.
	registerTransport(TransportGRPC, dialGRPC, listenGRPC)
}

// The gRPC transport multiplexes every logical method over one generic
// unary RPC, carrying the method name in request metadata and the payload
// as raw bytes. This avoids generated stubs entirely: the method surface
// is dynamic, exactly as it is for the frame and HTTP transports.
const (
	grpcInvokeMethod  = "/mcpwire.Wire/Invoke"
	grpcMethodMetaKey = "mcpwire-method"
)

// grpcRawCodec moves byte slices through grpc without re-encoding.
type grpcRawCodec struct{}

func (grpcRawCodec) Marshal(v interface{}) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case *[]byte:
		return *b, nil
	}
	return nil, fmt.Errorf("grpc raw codec: unsupported type %T", v)
}

func (grpcRawCodec) Unmarshal(data []byte, v interface{}) error {
	b, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("grpc raw codec: unsupported type %T", v)
	}
	*b = data
	return nil
}

func (grpcRawCodec) Name() string { return "mcpwire-raw" }

func dialGRPC(ctx context.Context, addr string, o *dialOptions) (Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(grpcRawCodec{})),
	)
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &grpcClient{conn: conn, codec: o.codec}, nil
}

type grpcClient struct {
	conn  *grpc.ClientConn
	codec Codec
}

func (c *grpcClient) Call(ctx context.Context, method string, args, reply interface{}) error {
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

	resp, err := c.CallRaw(ctx, method, payload)
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

func (c *grpcClient) CallRaw(ctx context.Context, method string, payload []byte) ([]byte, error) {
	ctx = metadata.AppendToOutgoingContext(ctx, grpcMethodMetaKey, method)
	var resp []byte
	if err := c.conn.Invoke(ctx, grpcInvokeMethod, payload, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *grpcClient) Close() error {
	return c.conn.Close()
}

func listenGRPC(addr string, o *serverOptions) (Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &grpcServer{
		ln:       ln,
		handlers: make(map[string]RawHandler),
	}
	s.gs = grpc.NewServer(grpc.ForceServerCodec(grpcRawCodec{}))
	s.gs.RegisterService(&grpc.ServiceDesc{
		ServiceName: "mcpwire.Wire",
		HandlerType: (*interface{})(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Invoke", Handler: grpcInvokeHandler},
		},
	}, s)
	return s, nil
}

type grpcServer struct {
	ln       net.Listener
	gs       *grpc.Server
	handlers map[string]RawHandler
}

func grpcInvokeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
	var payload []byte
	if err := dec(&payload); err != nil {
		return nil, err
	}
	s := srv.(*grpcServer)

	md, _ := metadata.FromIncomingContext(ctx)
	names := md.Get(grpcMethodMetaKey)
	if len(names) == 0 {
		return nil, fmt.Errorf("missing %s metadata", grpcMethodMetaKey)
	}
	handler, ok := s.handlers[names[0]]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", names[0])
	}
	out, err := handler(ctx, payload)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *grpcServer) RegisterRaw(method string, handler RawHandler) error {
	if _, dup := s.handlers[method]; dup {
		return fmt.Errorf("method already registered: %s", method)
	}
	s.handlers[method] = handler
	return nil
}

func (s *grpcServer) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.gs.Serve(s.ln)
	}()
	select {
	case <-ctx.Done():
		s.gs.GracefulStop()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *grpcServer) Close() error {
	s.gs.Stop()
	return nil
}

func (s *grpcServer) Addr() string {
	return s.ln.Addr().String()
}
