// Package transferreadmodel maintains a queryable view of transfers.
//
// The view is derived from the Transfer stream and is never authoritative:
// the stream itself is the source of truth, and the view may lag behind it.
package transferreadmodel

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrTransferNotFound is returned by FindByID when no record exists for the id.
var ErrTransferNotFound = errors.New("transfer not found")

// TransferRecord is the read-model row for one transfer.
type TransferRecord struct {
	TransferID               string          `json:"transferId"`
	SourceAccountID          string          `json:"sourceAccountId"`
	SourceBankAccountID      string          `json:"sourceBankAccountId"`
	DestinationAccountID     string          `json:"destinationAccountId"`
	DestinationBankAccountID string          `json:"destinationBankAccountId"`
	Amount                   decimal.Decimal `json:"amount"`
	State                    string          `json:"state"`
	InitiatedAt              time.Time       `json:"initiatedAt"`
	UpdatedAt                time.Time       `json:"updatedAt"`
}

// Store persists transfer records keyed by transfer id.
type Store interface {
	Save(ctx context.Context, record TransferRecord) error
	UpdateState(ctx context.Context, transferID string, state string, updatedAt time.Time) error
	FindByID(ctx context.Context, transferID string) (TransferRecord, error)
}
