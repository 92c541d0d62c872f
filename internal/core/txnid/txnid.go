// Package txnid contains the identifier scheme for audit entries.
// This is part of the Functional Core - generators are injected, not global.
package txnid

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Prefix tags an identifier with the context that produced it.
// Downstream consumers key off these prefixes.
type Prefix string

const (
	PrefixHistory  Prefix = "HIST-"
	PrefixDocument Prefix = "DOC-"
	PrefixIssuance Prefix = "PATTA-"
)

// BodyLength is the number of hex characters after the prefix.
const BodyLength = 12

// Generator produces prefix-tagged identifiers.
type Generator interface {
	New(prefix Prefix) string
}

// UUIDGenerator draws a random 128-bit value per id. No collision check is
// performed against existing ids.
type UUIDGenerator struct{}

// New returns prefix + the first 12 uppercase hex characters of a random UUID.
func (UUIDGenerator) New(prefix Prefix) string {
	return Format(prefix, uuid.New())
}

// Format renders a UUID under the id scheme.
func Format(prefix Prefix, id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return string(prefix) + strings.ToUpper(hex[:BodyLength])
}

// SequenceGenerator yields PREFIX-000000000001, PREFIX-000000000002, ...
// It is deterministic and safe for concurrent use.
type SequenceGenerator struct {
	mu   sync.Mutex
	next int
}

// NewSequenceGenerator returns a generator starting at 1.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

func (g *SequenceGenerator) New(prefix Prefix) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s%0*X", prefix, BodyLength, g.next)
}

// HasPrefix reports whether id is tagged with prefix and carries a body.
func HasPrefix(id string, prefix Prefix) bool {
	return strings.HasPrefix(id, string(prefix)) && len(id) > len(prefix)
}
