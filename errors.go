// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

import "github.com/pkg/errors"

var (
	// ErrConfiguration indicates the chain cannot be constructed with the
	// requested configuration, e.g. too many registers.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrIndexOutOfRange indicates an output or register index outside the
	// chain.
	ErrIndexOutOfRange = errors.New("index out of range")
)
