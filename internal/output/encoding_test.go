package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestDeterministicEncodeSortsMapKeys(t *testing.T) {
	v := map[string]interface{}{
		"zebra": 1,
		"alpha": 2,
		"mid":   3,
	}
	out, err := DeterministicEncode(v)
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	if !strings.Contains(got, `"alpha":2,"mid":3,"zebra":1`) {
		t.Errorf("keys not sorted: %s", got)
	}
}

func TestDeterministicEncodeStable(t *testing.T) {
	v := map[string]interface{}{
		"files":   []string{"b.ts", "a.ts"},
		"jaccard": 0.6666666666,
		"count":   3,
	}
	first, err := DeterministicEncode(v)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		again, err := DeterministicEncode(v)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d produced different bytes:\n%s\n%s", i, first, again)
		}
	}
}

func TestDeterministicEncodeRoundsFloats(t *testing.T) {
	out, err := DeterministicEncode(map[string]interface{}{"j": 2.0 / 3.0})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"j":0.666667}`; string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestDeterministicEncodeOmitsEmpty(t *testing.T) {
	type payload struct {
		Name  string   `json:"name"`
		Notes []string `json:"notes,omitempty"`
		Count int      `json:"count,omitempty"`
	}
	out, err := DeterministicEncode(payload{Name: "x"})
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	if strings.Contains(got, "notes") || strings.Contains(got, "count") {
		t.Errorf("empty omitempty fields should be elided: %s", got)
	}
}

func TestDeterministicEncodeNoHTMLEscaping(t *testing.T) {
	out, err := DeterministicEncode(map[string]interface{}{"action": "a < b && c"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), `<`) {
		t.Errorf("HTML escaping must be off: %s", out)
	}
}

func TestRoundFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.66666666, 0.666667},
		{0.7, 0.7},
		{1.0000004, 1.0},
		{0, 0},
	}
	for _, c := range cases {
		if got := RoundFloat(c.in); got != c.want {
			t.Errorf("RoundFloat(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCompareSnapshotsIgnoresAnalyzedAt(t *testing.T) {
	a := []byte(`{"package":"web","analyzedAt":"2026-01-01T00:00:00Z","tiers":{"a.ts":1}}`)
	b := []byte(`{"package":"web","analyzedAt":"2026-02-15T12:30:00Z","tiers":{"a.ts":1}}`)

	same, reason := CompareSnapshots(a, b)
	if !same {
		t.Errorf("snapshots differing only in analyzedAt should compare equal: %s", reason)
	}
}

func TestCompareSnapshotsDetectsChange(t *testing.T) {
	a := []byte(`{"package":"web","tiers":{"a.ts":1}}`)
	b := []byte(`{"package":"web","tiers":{"a.ts":2}}`)

	if same, _ := CompareSnapshots(a, b); same {
		t.Error("a tier change must not compare equal")
	}
}

func TestCompareSnapshotsMalformed(t *testing.T) {
	if same, reason := CompareSnapshots([]byte(`{`), []byte(`{}`)); same || reason == "" {
		t.Error("malformed input should fail with a reason")
	}
}
