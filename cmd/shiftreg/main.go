// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// shiftreg drives the outputs of a chain of shift registers from the command
// line.
package main

import "github.com/warthog618/go-shiftreg/cmd/shiftreg/cmd"

func main() {
	cmd.Execute()
}
