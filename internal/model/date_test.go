package model

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2010-05-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2010-05-15" {
		t.Errorf("got %q, want 2010-05-15", d.String())
	}
}

func TestParseDate_RejectsAmbiguousForms(t *testing.T) {
	for _, s := range []string{"2010/05/15", "15-05-2010", "2010-5-15", "May 15 2010", "2010-13-01", ""} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d, _ := ParseDate("2024-01-31")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-01-31"` {
		t.Errorf("marshal = %s, want \"2024-01-31\"", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip changed value: %v != %v", back, d)
	}
}

func TestDate_UnmarshalNull(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`null`), &d); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !d.IsZero() {
		t.Errorf("expected zero date, got %v", d)
	}
}
