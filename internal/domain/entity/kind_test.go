package entity

import "testing"

func TestParse(t *testing.T) {
	for _, kind := range All() {
		got, err := Parse(string(kind))
		if err != nil {
			t.Fatalf("Parse(%q): %v", kind, err)
		}
		if got != kind {
			t.Errorf("Parse(%q) = %q", kind, got)
		}
	}

	if _, err := Parse("vehicle"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := Parse(""); err == nil {
		t.Error("expected error for empty kind")
	}
}

func TestCollection(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{User, "users"},
		{Team, "teams"},
		{Pump, "petrolPumps"},
		{Request, "pumpRequests"},
	}
	for _, tc := range tests {
		if got := tc.kind.Collection(); got != tc.want {
			t.Errorf("%s collection = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestAll_Order(t *testing.T) {
	want := []Kind{User, Team, Pump, Request}
	got := All()
	if len(got) != len(want) {
		t.Fatalf("got %d kinds", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
