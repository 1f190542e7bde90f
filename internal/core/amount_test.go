package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{" 1000 ", "1000", true},
		{"0", "0", true},
		{"", "", false},
		{"abc", "", false},
		{"-5", "", false},
		{"+5", "", false},
		{"1.2.3", "", false},
	}
	for _, tc := range cases {
		d, err := ParseAmount(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: expected ok, got %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if d.String() != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.in, tc.want, d)
		}
	}
}

func TestAmountOrZero(t *testing.T) {
	if !amountOrZero("garbage").IsZero() {
		t.Fatalf("malformed amount must contribute zero")
	}
	if amountOrZero("42").String() != "42" {
		t.Fatalf("valid amount must parse")
	}
}
