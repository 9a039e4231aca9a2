// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lib05 is a container for the TN-05 module packages.
//
// Package tn05 is the module driver, dacwire encodes its output bus, firmata
// reaches a module from a host over USB serial and ledterm previews the
// indicator LED in a terminal.
package lib05
