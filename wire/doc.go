// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wire implements the two RPC transports compared by the mcpwire
// benchmark, behind one Client/Server interface pair.
//
// # Transports
//
//	frame  binary framed TCP: one persistent connection, request-ID
//	       correlated, pipelined (default)
//	http   textual JSON-RPC 2.0 over HTTP: one envelope per exchange
//	grpc   generic unary gRPC (requires -tags grpc)
//
// # Usage
//
// Client:
//
//	client, err := wire.Dial(ctx, "localhost:9000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	var reply ToolList
//	err = client.Call(ctx, "tools/list", nil, &reply)
//
// Server:
//
//	server, err := wire.Listen(":9000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	server.RegisterRaw("ping", func(ctx context.Context, payload []byte) ([]byte, error) {
//	    return json.Marshal("pong")
//	})
//	server.Serve(ctx)
//
// Both transports carry JSON payloads, so a handler registered once serves
// identically regardless of which transport the request arrived on. The
// difference the benchmark measures is purely the call plumbing around the
// payload: framing and correlation for frame, an HTTP exchange and JSON-RPC
// envelope for http.
//
// # Semantics worth knowing
//
// The frame transport allows any number of calls in flight on one
// connection. The server handles them concurrently and responses are
// matched by request ID, so completion order is not issue order. Closing a
// frame connection fails all outstanding and future calls on it with
// ErrFrameClosed.
//
// The http transport performs a GET /health probe at dial time, so an
// unreachable server fails Dial rather than the first call.
package wire
