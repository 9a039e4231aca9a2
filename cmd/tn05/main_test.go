// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/metakeule/config"
)

func TestOptions(t *testing.T) {
	for _, tc := range []struct {
		cmd     *config.Config
		name    string
		options []string
	}{
		{cfg, "", []string{"port", "baud", "min", "max", "dacclock", "dacdata", "preview", "verbose", "interval"}},
		{stateCmd, "state", nil},
		{writeCmd, "write", []string{"value"}},
		{colourCmd, "colour", []string{"red", "green", "blue"}},
		{frameCmd, "frame", []string{"code"}},
	} {
		if got := tc.cmd.CommmandName(); got != tc.name {
			t.Errorf("command %q, want %q", got, tc.name)
		}
		for _, o := range tc.options {
			if !tc.cmd.IsOption(o) {
				t.Errorf("%q: option %q not registered", tc.name, o)
			}
		}
	}
}

func TestFormatFrame(t *testing.T) {
	for _, tc := range []struct {
		code uint16
		want string
	}{
		{205, "11000000 1 0000 0000 1 11001101 1"},
		{2048, "11000000 1 0000 1000 1 00000000 1"},
		{3891, "11000000 1 0000 1111 1 00110011 1"},
	} {
		if got := formatFrame(tc.code); got != tc.want {
			t.Errorf("formatFrame(%d)=%q want %q", tc.code, got, tc.want)
		}
	}
}

func TestClampCode(t *testing.T) {
	for _, tc := range []struct {
		in   int32
		want uint16
	}{
		{-1, 0},
		{0, 0},
		{2048, 2048},
		{1 << 20, 65535},
	} {
		if got := clampCode(tc.in); got != tc.want {
			t.Errorf("clampCode(%d)=%d want %d", tc.in, got, tc.want)
		}
	}
}
