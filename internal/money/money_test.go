package money

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input    string
		wantErr  bool
		positive bool
	}{
		{"12.50", false, true},
		{"  99 ", false, true},
		{"-5", false, false},
		{"0", false, false},
		{"", true, false},
		{"abc", true, false},
		{"1,50", true, false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got %v", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.input, err)
		}
		if got.Positive() != tc.positive {
			t.Fatalf("Parse(%q).Positive() = %v, want %v", tc.input, got.Positive(), tc.positive)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	a, err := Parse("1234.56")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "1234.56" {
		t.Fatalf("expected bare number, got %s", data)
	}
	var back Amount
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != a.String() {
		t.Fatalf("round trip mismatch: %s vs %s", back, a)
	}
	// Backends that quote numbers must decode the same way.
	var quoted Amount
	if err := json.Unmarshal([]byte(`"78.90"`), &quoted); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if quoted.String() != "78.9" {
		t.Fatalf("quoted decode = %s", quoted)
	}
}

func TestFormat(t *testing.T) {
	a, _ := Parse("7.5")
	if got := a.Format("USD"); got != "7.50 USD" {
		t.Fatalf("Format = %q", got)
	}
	if got := a.Format(""); got != "7.50" {
		t.Fatalf("Format without currency = %q", got)
	}
}

func TestAdd(t *testing.T) {
	a, _ := Parse("1.10")
	b, _ := Parse("2.05")
	if got := a.Add(b).String(); got != "3.15" {
		t.Fatalf("Add = %s", got)
	}
	if !Zero.IsZero() {
		t.Fatalf("Zero must be zero")
	}
}
