// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/rpc/v2/json2"
)

// The HTTP transport is the textual side of the comparison: each call is
// one JSON-RPC 2.0 envelope in one HTTP POST, with no persistent call
// state between exchanges. Failures before a response is received surface
// as transport errors; failures the server could classify come back as a
// *json2.Error decoded from the error envelope.

// cleanlyCloseBody drains and closes an HTTP response body so the
// underlying connection can be reused.
func cleanlyCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

func dialHTTP(ctx context.Context, addr string, o *dialOptions) (Client, error) {
	base := addr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	base = strings.TrimRight(base, "/")

	c := &httpClient{
		base: base,
		hc:   &http.Client{Timeout: 30 * time.Second},
	}

	// Verify readiness before handing the client out, so a dead server is
	// a dial failure rather than a failure on the first timed call.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http dial %s: %w", addr, err)
	}
	cleanlyCloseBody(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http dial %s: health check returned status %d", addr, resp.StatusCode)
	}
	return c, nil
}

// httpClient implements Client with one JSON-RPC envelope per exchange.
type httpClient struct {
	base string
	hc   *http.Client
}

func (c *httpClient) Call(ctx context.Context, method string, args, reply interface{}) error {
	body, err := json2.EncodeClientRequest(method, args)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("issue request: %w", err)
	}
	defer cleanlyCloseBody(resp.Body)

	// The server answers 200 for success and 500 for dispatch failures,
	// both carrying a decodable envelope. Anything else has no envelope.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusInternalServerError {
		return fmt.Errorf("received status code: %d", resp.StatusCode)
	}

	if err := json2.DecodeClientResponse(resp.Body, reply); err != nil {
		return err
	}
	return nil
}

func (c *httpClient) CallRaw(ctx context.Context, method string, payload []byte) ([]byte, error) {
	var args interface{}
	if len(payload) > 0 {
		args = json.RawMessage(payload)
	}
	var reply json.RawMessage
	if err := c.Call(ctx, method, args, &reply); err != nil {
		return nil, err
	}
	return []byte(reply), nil
}

func (c *httpClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

func listenHTTP(addr string, o *serverOptions) (Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &httpServer{
		ln:       ln,
		handlers: make(map[string]RawHandler),
		service:  o.healthService,
		repo:     o.healthRepo,
	}
	if s.service == "" {
		s.service = "mcpwire"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Post("/", s.handleRPC)
	s.srv = &http.Server{Handler: r}
	return s, nil
}

// httpServer implements Server, dispatching JSON-RPC envelopes by method.
type httpServer struct {
	ln       net.Listener
	srv      *http.Server
	handlers map[string]RawHandler
	service  string
	repo     string
}

func (s *httpServer) RegisterRaw(method string, handler RawHandler) error {
	if _, dup := s.handlers[method]; dup {
		return fmt.Errorf("method already registered: %s", method)
	}
	s.handlers[method] = handler
	return nil
}

func (s *httpServer) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(s.ln)
	}()
	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *httpServer) Close() error {
	return s.srv.Close()
}

func (s *httpServer) Addr() string {
	return s.ln.Addr().String()
}

type rpcEnvelope struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

func (s *httpServer) handleRPC(w http.ResponseWriter, r *http.Request) {
	var env rpcEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeRPCError(w, nil, fmt.Sprintf("invalid request: %v", err))
		return
	}

	handler, ok := s.handlers[env.Method]
	if !ok {
		writeRPCError(w, env.ID, fmt.Sprintf("unknown method: %s", env.Method))
		return
	}

	result, err := handler(r.Context(), env.Params)
	if err != nil {
		writeRPCError(w, env.ID, err.Error())
		return
	}
	if len(result) == 0 {
		result = []byte("null")
	}
	if len(env.ID) == 0 {
		env.ID = []byte("null")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Version string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Result  json.RawMessage `json:"result"`
	}{"2.0", env.ID, result})
}

// writeRPCError writes a JSON-RPC error envelope. The HTTP status is 500
// for every dispatch failure; the envelope carries the detail.
func writeRPCError(w http.ResponseWriter, id json.RawMessage, message string) {
	if len(id) == 0 {
		id = []byte("null")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(struct {
		Version string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Error   *json2.Error    `json:"error"`
	}{"2.0", id, &json2.Error{Code: json2.E_INTERNAL, Message: message}})
}

func (s *httpServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Repo    string `json:"repo,omitempty"`
	}{"healthy", s.service, s.repo})
}
