// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package shiftreg

// Level is the logical level of a line or parallel output.
type Level bool

const (
	// Line is driven low.
	Low Level = false

	// Line is driven high.
	High Level = true
)

// LevelOf returns the Level corresponding to a bit value.
//
// Zero maps to Low and any other value maps to High.
func LevelOf(bit int) Level {
	return bit != 0
}

// Bit returns the level as a bit value, 0 for Low and 1 for High.
func (l Level) Bit() int {
	if l {
		return 1
	}
	return 0
}

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}
