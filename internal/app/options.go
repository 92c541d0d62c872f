package app

import (
	"github.com/example/patta/internal/core/certificate"
	"github.com/example/patta/internal/core/workflow"
)

// Options carries the behavior switches read from configuration.
type Options struct {
	// EnforceTransitions rejects status moves the table does not allow.
	EnforceTransitions bool
	// Transitions is the table consulted when EnforceTransitions is set.
	Transitions *workflow.Table
	// Certificates configures issuance defaults and re-issuance.
	Certificates certificate.Options
	// UseIndexes serves filtered queries from secondary indexes instead of scans.
	UseIndexes bool
}

// DefaultOptions keeps the permissive workflow and index-backed queries.
func DefaultOptions() Options {
	return Options{
		Transitions: workflow.DefaultTable(),
		Certificates: certificate.Options{
			IssuingAuthority: certificate.DefaultIssuingAuthority,
		},
		UseIndexes: true,
	}
}
