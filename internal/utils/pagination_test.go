package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 10, 10},
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		{"x", 5, 5},
		{" 42", 7, 7},
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestHistoryLimit(t *testing.T) {
	cases := []struct {
		s    string
		max  int
		want int
	}{
		{"", 500, 0},
		{"abc", 500, 0},
		{"20", 500, 20},
		{" 20 ", 500, 20},
		{"-3", 500, 0},
		{"9000", 500, 500},
		{"9000", 0, 9000},
	}
	for _, tc := range cases {
		if got := HistoryLimit(tc.s, tc.max); got != tc.want {
			t.Errorf("HistoryLimit(%q, %d) = %d; want %d", tc.s, tc.max, got, tc.want)
		}
	}
}
