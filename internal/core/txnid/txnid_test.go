package txnid

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
)

func TestFormat(t *testing.T) {
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

	tests := []struct {
		name   string
		prefix Prefix
		want   string
	}{
		{name: "history", prefix: PrefixHistory, want: "HIST-0F8FAD5BD9CB"},
		{name: "document", prefix: PrefixDocument, want: "DOC-0F8FAD5BD9CB"},
		{name: "issuance", prefix: PrefixIssuance, want: "PATTA-0F8FAD5BD9CB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.prefix, id); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUUIDGenerator_Shape(t *testing.T) {
	pattern := regexp.MustCompile(`^DOC-[0-9A-F]{12}$`)
	gen := UUIDGenerator{}

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := gen.New(PrefixDocument)
		if !pattern.MatchString(id) {
			t.Fatalf("id %q does not match %s", id, pattern)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSequenceGenerator(t *testing.T) {
	gen := NewSequenceGenerator()

	if got := gen.New(PrefixHistory); got != "HIST-000000000001" {
		t.Errorf("first id = %q", got)
	}
	if got := gen.New(PrefixIssuance); got != "PATTA-000000000002" {
		t.Errorf("second id = %q", got)
	}
}

func TestHasPrefix(t *testing.T) {
	if !HasPrefix("HIST-ABC", PrefixHistory) {
		t.Error("expected HIST-ABC to carry history prefix")
	}
	if HasPrefix("HIST-", PrefixHistory) {
		t.Error("bare prefix should not count")
	}
	if HasPrefix("DOC-ABC", PrefixHistory) {
		t.Error("DOC- id should not carry history prefix")
	}
}
