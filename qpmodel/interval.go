// Copyright 2024 The qubogo Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qpmodel

import (
	"fmt"
	"math"
)

// Interval stores the closed interval `[Lo,Hi]` over the extended reals.
// If `Lo` is greater than `Hi`, the interval is considered empty. An
// unbounded end is represented with math.Inf(-1) or math.Inf(1).
type Interval struct {
	Lo float64
	Hi float64
}

// NewInterval creates the interval `[lo,hi]`.
func NewInterval(lo, hi float64) Interval {
	return Interval{lo, hi}
}

// NewSingleInterval creates the singleton interval `[val,val]`.
func NewSingleInterval(val float64) Interval {
	return Interval{val, val}
}

// AllReals returns the interval `[-Inf,+Inf]`.
func AllReals() Interval {
	return Interval{math.Inf(-1), math.Inf(1)}
}

// IsEmpty reports whether the interval contains no values.
func (i Interval) IsEmpty() bool {
	return i.Lo > i.Hi
}

// IsFinite reports whether both ends of the interval are finite. An empty
// interval is considered finite.
func (i Interval) IsFinite() bool {
	if i.IsEmpty() {
		return true
	}
	return !math.IsInf(i.Lo, 0) && !math.IsInf(i.Hi, 0)
}

// Contains reports whether `v` is a member of the interval.
func (i Interval) Contains(v float64) bool {
	return i.Lo <= v && v <= i.Hi
}

// addInf adds two extended reals. The undefined form Inf + -Inf cannot occur
// here because both operands come from interval ends of the same direction.
func addInf(a, b float64) float64 {
	if math.IsInf(a, 0) {
		return a
	}
	if math.IsInf(b, 0) {
		return b
	}
	return a + b
}

// Offset adds `delta` to both ends of the interval. Infinite ends are kept
// infinite.
func (i Interval) Offset(delta float64) Interval {
	if i.IsEmpty() {
		return i
	}
	return Interval{addInf(i.Lo, delta), addInf(i.Hi, delta)}
}

// Add returns the Minkowski sum of the two intervals, the range of `x + y`
// for `x` in `i` and `y` in `o`.
func (i Interval) Add(o Interval) Interval {
	if i.IsEmpty() || o.IsEmpty() {
		return Interval{1, 0}
	}
	return Interval{addInf(i.Lo, o.Lo), addInf(i.Hi, o.Hi)}
}

// Scale returns the range of `c * x` for `x` in the interval. A negative `c`
// swaps the ends, and `c == 0` collapses any non-empty interval to `[0,0]`.
func (i Interval) Scale(c float64) Interval {
	if i.IsEmpty() {
		return i
	}
	if c == 0 {
		return Interval{0, 0}
	}
	lo, hi := c*i.Lo, c*i.Hi
	if c < 0 {
		lo, hi = hi, lo
	}
	return Interval{lo, hi}
}

// Intersect returns the intersection of the two intervals.
func (i Interval) Intersect(o Interval) Interval {
	return Interval{math.Max(i.Lo, o.Lo), math.Min(i.Hi, o.Hi)}
}

// IsIntegral reports whether both ends are finite integers. Empty intervals
// report false.
func (i Interval) IsIntegral() bool {
	if i.IsEmpty() || !i.IsFinite() {
		return false
	}
	return i.Lo == math.Trunc(i.Lo) && i.Hi == math.Trunc(i.Hi)
}

func (i Interval) String() string {
	if i.IsEmpty() {
		return "[]"
	}
	return fmt.Sprintf("[%v,%v]", i.Lo, i.Hi)
}
