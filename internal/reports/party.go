package reports

import (
	"errors"

	"github.com/bahikhata-erp/bahikhata/internal/books"
)

// ErrNotPartyLedger indicates the ledger is not a party account.
var ErrNotPartyLedger = errors.New("reports: ledger is not a party account")

var partyTypes = map[books.LedgerType]struct{}{
	books.LedgerTypeSundryDebtors:   {},
	books.LedgerTypeSundryCreditors: {},
	books.LedgerTypeCustomer:        {},
	books.LedgerTypeSupplier:        {},
	books.LedgerTypeParty:           {},
}

// IsPartyLedger reports whether statements may be drawn for the type.
func IsPartyLedger(t books.LedgerType) bool {
	_, ok := partyTypes[t]
	return ok
}

// PartyStatement is a running account statement for a debtor or creditor,
// with the closing position expressed as receivable or payable.
type PartyStatement struct {
	PartyID        int64                `json:"partyId"`
	PartyName      string               `json:"partyName"`
	PartyType      books.LedgerType     `json:"partyType"`
	Range          DateRange            `json:"range"`
	OpeningBalance float64              `json:"openingBalance"`
	OpeningLabel   string               `json:"openingLabel"`
	Transactions   []books.StatementRow `json:"transactions"`
	Summary        StatementSummary     `json:"summary"`
	Position       string               `json:"position"`
}

// BuildPartyStatement folds the party's period entries into a statement.
// A closing Dr balance is money owed to us, Cr is money we owe.
func BuildPartyStatement(c books.Classifier, ledger books.Ledger, rng DateRange, opening float64, rows []books.EntryRow) (PartyStatement, error) {
	if !IsPartyLedger(ledger.Type) {
		return PartyStatement{}, ErrNotPartyLedger
	}
	stmt, err := BuildLedgerStatement(c, ledger, rng, opening, rows)
	if err != nil {
		return PartyStatement{}, err
	}
	position := "payable"
	if stmt.Summary.ClosingLabel == books.LabelDebit {
		position = "receivable"
	}
	return PartyStatement{
		PartyID:        ledger.ID,
		PartyName:      ledger.Name,
		PartyType:      ledger.Type,
		Range:          rng,
		OpeningBalance: stmt.OpeningBalance,
		OpeningLabel:   stmt.OpeningLabel,
		Transactions:   stmt.Transactions,
		Summary:        stmt.Summary,
		Position:       position,
	}, nil
}
