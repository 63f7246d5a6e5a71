// Package export defines the outbound port for mirroring ledger rows to
// an external spreadsheet.
package export

import (
	"context"

	"finman/internal/core"
)

// LedgerWriter appends a committed transaction to the export target and
// returns an opaque row reference.
type LedgerWriter interface {
	Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
}
