// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"encoding/json"
)

// JSONCodec encodes values as JSON. It is the default codec; both
// transports carry JSON payloads so that the same logical messages travel
// over either one.
type JSONCodec struct{}

func (JSONCodec) Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

var defaultCodec Codec = JSONCodec{}

// RawCodec passes byte slices through unchanged and falls back to JSON for
// anything else. Useful for pre-encoded payloads.
type RawCodec struct{}

func (RawCodec) Encode(v interface{}) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case *[]byte:
		return *b, nil
	}
	return json.Marshal(v)
}

func (RawCodec) Decode(data []byte, v interface{}) error {
	if b, ok := v.(*[]byte); ok {
		*b = data
		return nil
	}
	return json.Unmarshal(data, v)
}

// Raw is a shared RawCodec instance.
var Raw Codec = RawCodec{}
