package app

import (
	"github.com/example/patta/internal/core/record"
)

// Services holds every land record service built over one ledger.
type Services struct {
	Records      *RecordServiceImpl
	Workflow     *WorkflowServiceImpl
	History      *HistoryServiceImpl
	Documents    *DocumentServiceImpl
	Certificates *CertificateServiceImpl
	Queries      *QueryServiceImpl
	Indexes      *IndexServiceImpl
}

// NewServices builds the full service set sharing ledger and one validator.
func NewServices(ledger *Ledger, opts Options) *Services {
	validator := record.MustValidator()
	return &Services{
		Records:      NewRecordService(ledger, validator),
		Workflow:     NewWorkflowService(ledger, opts),
		History:      NewHistoryService(ledger, validator),
		Documents:    NewDocumentService(ledger),
		Certificates: NewCertificateService(ledger, validator, opts),
		Queries:      NewQueryService(ledger, opts),
		Indexes:      NewIndexService(ledger),
	}
}
