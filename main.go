// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/radiakml/radiakml/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
