// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrFrameClosed is returned for calls issued on, or outstanding over,
	// a closed connection.
	ErrFrameClosed = errors.New("frame: connection closed")
	// ErrFrameOversize is returned when a peer announces a frame larger
	// than maxFrameSize.
	ErrFrameOversize = errors.New("frame: oversize frame")
)

// frameType identifies the kind of message inside a frame.
type frameType uint8

const (
	frameRequest  frameType = 0x01
	frameResponse frameType = 0x02
	frameError    frameType = 0x03
)

// maxFrameSize bounds a single frame body. Benchmark payloads are small;
// anything larger indicates a corrupt or hostile stream.
const maxFrameSize = 16 << 20

// Frame layout, after a 4-byte big-endian length prefix covering the body:
//
//	request:  [1 type][4 requestID][2 methodLen][method][payload]
//	response: [1 type][4 requestID][payload]
//
// Request IDs are chosen by the client and echoed by the server; they exist
// solely so responses can be matched to calls, which is what allows several
// calls to be in flight on one connection at once.

func appendRequestFrame(buf []byte, id uint32, method string, payload []byte) []byte {
	body := 1 + 4 + 2 + len(method) + len(payload)
	buf = binary.BigEndian.AppendUint32(buf, uint32(body))
	buf = append(buf, byte(frameRequest))
	buf = binary.BigEndian.AppendUint32(buf, id)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(method)))
	buf = append(buf, method...)
	return append(buf, payload...)
}

func appendResponseFrame(buf []byte, ft frameType, id uint32, payload []byte) []byte {
	body := 1 + 4 + len(payload)
	buf = binary.BigEndian.AppendUint32(buf, uint32(body))
	buf = append(buf, byte(ft))
	buf = binary.BigEndian.AppendUint32(buf, id)
	return append(buf, payload...)
}

// readFrame reads one length-prefixed frame body from r.
func readFrame(r io.Reader, header []byte) ([]byte, error) {
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(header)
	if n == 0 || n > maxFrameSize {
		return nil, ErrFrameOversize
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// frameCallResult carries one resolved response back to the waiting caller.
type frameCallResult struct {
	payload []byte
	err     error
}

// FrameConn is the client side of a frame-transport connection. Calls may
// be pipelined: any number may be outstanding at once, and responses are
// matched by request ID rather than arrival order.
type FrameConn struct {
	conn     net.Conn
	writeMu  sync.Mutex
	pending  sync.Map // uint32 -> chan frameCallResult
	nextID   atomic.Uint32
	closed   atomic.Bool
	readDone chan struct{}
}

// FrameDial connects to a frame-transport server.
func FrameDial(ctx context.Context, addr string) (*FrameConn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("frame dial: %w", err)
	}
	fc := &FrameConn{
		conn:     conn,
		readDone: make(chan struct{}),
	}
	go fc.readLoop()
	return fc, nil
}

// Call sends one request and blocks until its response arrives, ctx is
// done, or the connection closes.
func (c *FrameConn) Call(ctx context.Context, method string, payload []byte) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrFrameClosed
	}

	id := c.nextID.Add(1)
	ch := make(chan frameCallResult, 1)
	c.pending.Store(id, ch)
	defer c.pending.Delete(id)

	buf := appendRequestFrame(nil, id, method, payload)
	c.writeMu.Lock()
	_, err := c.conn.Write(buf)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("frame write: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return res.payload, nil
	case <-c.readDone:
		return nil, ErrFrameClosed
	}
}

func (c *FrameConn) readLoop() {
	defer close(c.readDone)

	header := make([]byte, 4)
	for {
		body, err := readFrame(c.conn, header)
		if err != nil {
			return
		}
		if len(body) < 5 {
			continue
		}
		ft := frameType(body[0])
		id := binary.BigEndian.Uint32(body[1:5])
		payload := body[5:]

		v, ok := c.pending.Load(id)
		if !ok {
			continue
		}
		ch := v.(chan frameCallResult)
		switch ft {
		case frameResponse:
			ch <- frameCallResult{payload: payload}
		case frameError:
			ch <- frameCallResult{err: errors.New(string(payload))}
		}
	}
}

// Close closes the connection. Outstanding calls fail with ErrFrameClosed.
func (c *FrameConn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.conn.Close()
}

// FrameHandler handles one decoded request on the server side.
type FrameHandler interface {
	HandleFrame(ctx context.Context, method string, payload []byte) ([]byte, error)
}

// FrameHandlerFunc adapts a function to FrameHandler.
type FrameHandlerFunc func(ctx context.Context, method string, payload []byte) ([]byte, error)

func (f FrameHandlerFunc) HandleFrame(ctx context.Context, method string, payload []byte) ([]byte, error) {
	return f(ctx, method, payload)
}

// FrameServer accepts frame-transport connections and dispatches requests
// to a handler. Requests on one connection are handled concurrently, so a
// pipelining client gets its responses as they complete, not in issue
// order.
type FrameServer struct {
	listener net.Listener
	handler  FrameHandler
	conns    sync.Map
	closed   atomic.Bool
}

// NewFrameServer wraps an existing listener.
func NewFrameServer(listener net.Listener, handler FrameHandler) *FrameServer {
	return &FrameServer{listener: listener, handler: handler}
}

// Serve accepts connections until ctx is cancelled or the listener closes.
func (s *FrameServer) Serve(ctx context.Context) error {
	// Accept does not observe ctx on its own; closing the listener is the
	// only way to unblock it.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			s.listener.Close()
		case <-watchDone:
		}
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if s.closed.Load() {
				return nil
			}
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *FrameServer) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	s.conns.Store(conn, struct{}{})
	defer s.conns.Delete(conn)
	log.Printf("[FRAME] client connected: %s", conn.RemoteAddr())
	defer log.Printf("[FRAME] client disconnected: %s", conn.RemoteAddr())

	var writeMu sync.Mutex
	header := make([]byte, 4)
	for {
		body, err := readFrame(conn, header)
		if err != nil {
			return
		}
		if len(body) < 7 || frameType(body[0]) != frameRequest {
			continue
		}
		id := binary.BigEndian.Uint32(body[1:5])
		methodLen := int(binary.BigEndian.Uint16(body[5:7]))
		if len(body) < 7+methodLen {
			continue
		}
		method := string(body[7 : 7+methodLen])
		payload := body[7+methodLen:]

		go func() {
			resp, err := s.handler.HandleFrame(ctx, method, payload)
			ft := frameResponse
			if err != nil {
				ft = frameError
				resp = []byte(err.Error())
			}
			buf := appendResponseFrame(nil, ft, id, resp)
			writeMu.Lock()
			defer writeMu.Unlock()
			conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
			conn.Write(buf)
		}()
	}
}

// Close closes the listener and all open connections.
func (s *FrameServer) Close() error {
	s.closed.Store(true)
	s.conns.Range(func(key, _ interface{}) bool {
		key.(net.Conn).Close()
		return true
	})
	return s.listener.Close()
}

// Addr returns the listener address.
func (s *FrameServer) Addr() net.Addr {
	return s.listener.Addr()
}
