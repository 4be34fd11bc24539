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

package search

import "testing"

func TestContains(t *testing.T) {
	a := []string{"b", "d", "f", "h"}
	cases := []struct {
		x    string
		want bool
	}{
		{"a", false},
		{"b", true},
		{"c", false},
		{"f", true},
		{"h", true},
		{"i", false},
	}
	for _, c := range cases {
		if got := Contains(c.x, a); got != c.want {
			t.Errorf("Contains(%q, %v) = %v, want %v", c.x, a, got, c.want)
		}
	}
	if Contains("a", nil) {
		t.Errorf("Contains on empty slice should be false")
	}
}

func TestFloorIndex(t *testing.T) {
	a := []string{"b", "d", "f", "h"}
	cases := []struct {
		x    string
		want int
	}{
		{"a", -1},
		{"b", 0},
		{"c", 0},
		{"d", 1},
		{"g", 2},
		{"h", 3},
		{"z", 3},
	}
	for _, c := range cases {
		if got := FloorIndex(c.x, a); got != c.want {
			t.Errorf("FloorIndex(%q, %v) = %d, want %d", c.x, a, got, c.want)
		}
	}
	if FloorIndex("a", nil) != -1 {
		t.Errorf("FloorIndex on empty slice should be -1")
	}
}

func TestCeilIndex(t *testing.T) {
	a := []string{"b", "d", "f", "h"}
	cases := []struct {
		x    string
		want int
	}{
		{"a", 0},
		{"b", 0},
		{"c", 1},
		{"h", 3},
		{"i", -1},
	}
	for _, c := range cases {
		if got := CeilIndex(c.x, a); got != c.want {
			t.Errorf("CeilIndex(%q, %v) = %d, want %d", c.x, a, got, c.want)
		}
	}
	if CeilIndex("a", nil) != -1 {
		t.Errorf("CeilIndex on empty slice should be -1")
	}
}

func TestConsistency(t *testing.T) {
	a := []string{"apple", "banana", "cherry", "date", "fig"}
	for _, x := range append(append([]string{}, a...), "aardvark", "blueberry", "zebra") {
		has := Contains(x, a)
		fi := FloorIndex(x, a)
		ci := CeilIndex(x, a)
		if has {
			if fi < 0 || a[fi] != x {
				t.Errorf("Contains(%q)=true but FloorIndex inconsistent: %d", x, fi)
			}
			if ci < 0 || a[ci] != x {
				t.Errorf("Contains(%q)=true but CeilIndex inconsistent: %d", x, ci)
			}
		}
	}
}
