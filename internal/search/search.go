// Copyright © 2018-2020 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package search implements binary-search primitives over a sorted slice
// of strings. These are the building blocks for locating a batch inside
// the index directory and for locating a line inside a batch.
package search

// Contains reports whether x is present in the sorted slice a.
func Contains(x string, a []string) bool {
	if len(a) == 0 || x < a[0] || a[len(a)-1] < x {
		return false
	}
	lo, hi := 0, len(a)-1
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if x < a[mid] {
			hi = mid - 1
		} else {
			lo = mid
		}
	}
	return a[lo] == x
}

// FloorIndex returns the largest index i such that a[i] <= x, or -1 if no
// such index exists (a is empty or x is smaller than every element).
func FloorIndex(x string, a []string) int {
	if len(a) == 0 || x < a[0] {
		return -1
	}
	lo, hi := 0, len(a)-1
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if x < a[mid] {
			hi = mid - 1
		} else {
			lo = mid
		}
	}
	return lo
}

// CeilIndex returns the smallest index i such that a[i] >= x, or -1 if no
// such index exists (a is empty or x is greater than every element).
func CeilIndex(x string, a []string) int {
	if len(a) == 0 || a[len(a)-1] < x {
		return -1
	}
	lo, hi := 0, len(a)-1
	for lo < hi {
		mid := lo + (hi-lo)/2
		if a[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
