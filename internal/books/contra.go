package books

// ParticularsVarious is shown when a voucher touches more than one
// counter-ledger and no single contra name exists.
const ParticularsVarious = "Various"

// Particulars resolves the contra column for a voucher viewed from the
// subject ledger: when exactly one other ledger is touched its name is used,
// otherwise "Various". The lookup is pure over the in-memory entry list and
// independent of how the voucher was loaded.
func Particulars(entries []VoucherEntry, subjectLedgerID int64) string {
	var name string
	others := 0
	for _, entry := range entries {
		if entry.LedgerID == subjectLedgerID {
			continue
		}
		others++
		name = entry.LedgerName
	}
	if others == 1 {
		return name
	}
	return ParticularsVarious
}
