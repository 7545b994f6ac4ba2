// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func noop(context.Context, map[string]interface{}) (string, error) { return "", nil }

func TestRegistryRejectsDuplicatesAndEmptyNames(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(ToolDescriptor{Name: "a"}, noop))
	require.Error(t, reg.Register(ToolDescriptor{Name: "a"}, noop), "duplicate name must be rejected")
	require.Error(t, reg.Register(ToolDescriptor{Name: ""}, noop))
	require.Error(t, reg.Register(ToolDescriptor{Name: "b"}, nil))
}

func TestRegistryDescriptorsKeepRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zulu", "alpha", "mike"} {
		require.NoError(t, reg.Register(ToolDescriptor{Name: name}, noop))
	}

	descs := reg.Descriptors()
	require.Len(t, descs, 3)
	require.Equal(t, "zulu", descs[0].Name)
	require.Equal(t, "alpha", descs[1].Name)
	require.Equal(t, "mike", descs[2].Name)

	// A second snapshot is identical.
	require.Equal(t, descs, reg.Descriptors())
}
