// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"context"
	"sort"
	"sync"
)

// Transport names.
const (
	// TransportFrame is the binary framed TCP transport: one persistent
	// connection, request-ID correlated, pipelined. The default.
	TransportFrame = "frame"

	// TransportHTTP is the textual JSON-RPC 2.0 transport over HTTP: one
	// envelope per exchange, no pipelining.
	TransportHTTP = "http"

	// TransportGRPC is the gRPC transport, available when built with the
	// grpc build tag.
	TransportGRPC = "grpc"
)

// DefaultTransport is used when no transport is selected.
const DefaultTransport = TransportFrame

type dialFunc func(ctx context.Context, addr string, o *dialOptions) (Client, error)
type listenFunc func(addr string, o *serverOptions) (Server, error)

var (
	transportsMu sync.RWMutex
	transports   = map[string]struct {
		dial   dialFunc
		listen listenFunc
	}{
		TransportFrame: {dialFrame, listenFrame},
		TransportHTTP:  {dialHTTP, listenHTTP},
	}
)

// registerTransport registers a transport (used by build-tag-gated files).
func registerTransport(name string, dial dialFunc, listen listenFunc) {
	transportsMu.Lock()
	defer transportsMu.Unlock()
	transports[name] = struct {
		dial   dialFunc
		listen listenFunc
	}{dial, listen}
}

func lookupTransport(name string) (dialFunc, listenFunc, bool) {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	t, ok := transports[name]
	return t.dial, t.listen, ok
}

// AvailableTransports returns the sorted names of compiled-in transports.
func AvailableTransports() []string {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	result := make([]string, 0, len(transports))
	for name := range transports {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// HasTransport reports whether a transport name is available.
func HasTransport(name string) bool {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	_, ok := transports[name]
	return ok
}
