package books

// BalanceCategory groups ledger types for sectioned reports.
type BalanceCategory string

const (
	CategoryAssets      BalanceCategory = "ASSETS"
	CategoryLiabilities BalanceCategory = "LIABILITIES"
	CategoryCapital     BalanceCategory = "CAPITAL"
	CategoryIncome      BalanceCategory = "INCOME"
	CategoryExpenses    BalanceCategory = "EXPENSES"
	CategoryOther       BalanceCategory = "OTHER"
)

// debitNatureTypes is the fixed set of ledger types whose balance grows with
// debit entries. Membership is exhaustive; everything else follows the
// classifier default.
var debitNatureTypes = map[LedgerType]struct{}{
	LedgerTypeAsset:           {},
	LedgerTypeFixedAssets:     {},
	LedgerTypeMovableAssets:   {},
	LedgerTypeImmovableAssets: {},
	LedgerTypeOtherAssets:     {},
	LedgerTypeExpense:         {},
	LedgerTypePurchases:       {},
	LedgerTypeTradeExpenses:   {},
	LedgerTypeEstablishment:   {},
	LedgerTypeMiscExpenses:    {},
	LedgerTypeCash:            {},
	LedgerTypeBank:            {},
	LedgerTypeOtherReceivable: {},
	LedgerTypeSundryDebtors:   {},
	LedgerTypeCustomer:        {},
	LedgerTypeParty:           {},
}

var categoryByType = map[LedgerType]BalanceCategory{
	LedgerTypeCash:            CategoryAssets,
	LedgerTypeBank:            CategoryAssets,
	LedgerTypeAsset:           CategoryAssets,
	LedgerTypeFixedAssets:     CategoryAssets,
	LedgerTypeMovableAssets:   CategoryAssets,
	LedgerTypeImmovableAssets: CategoryAssets,
	LedgerTypeOtherAssets:     CategoryAssets,
	LedgerTypeSundryDebtors:   CategoryAssets,
	LedgerTypeOtherReceivable: CategoryAssets,
	LedgerTypeCustomer:        CategoryAssets,
	LedgerTypeParty:           CategoryAssets,
	LedgerTypeLiability:       CategoryLiabilities,
	LedgerTypeSundryCreditors: CategoryLiabilities,
	LedgerTypeSupplier:        CategoryLiabilities,
	LedgerTypeOtherPayable:    CategoryLiabilities,
	LedgerTypeDutiesAndTaxes:  CategoryLiabilities,
	LedgerTypeCapital:         CategoryCapital,
	LedgerTypeIncome:          CategoryIncome,
	LedgerTypeSales:           CategoryIncome,
	LedgerTypeExpense:         CategoryExpenses,
	LedgerTypePurchases:       CategoryExpenses,
	LedgerTypeTradeExpenses:   CategoryExpenses,
	LedgerTypeEstablishment:   CategoryExpenses,
	LedgerTypeMiscExpenses:    CategoryExpenses,
}

// Classifier resolves the balance nature of ledger types. The zero value
// treats every type outside the fixed debit-nature set as credit-nature,
// which matches how user-defined types have always behaved. Callers that
// want custom types to default to debit-nature set DebitDefault.
type Classifier struct {
	DebitDefault bool
}

// IsDebitNature reports whether balances of the given type grow with debits.
func (c Classifier) IsDebitNature(t LedgerType) bool {
	if _, ok := debitNatureTypes[t]; ok {
		return true
	}
	return c.DebitDefault
}

// IsDebitNature applies the stock classifier with the credit-nature default.
func IsDebitNature(t LedgerType) bool {
	return Classifier{}.IsDebitNature(t)
}

// Category maps a ledger type onto its reporting section. Unmapped types
// resolve to CategoryOther.
func Category(t LedgerType) BalanceCategory {
	if cat, ok := categoryByType[t]; ok {
		return cat
	}
	return CategoryOther
}

// Categories yields the fixed section ordering used by grouped reports.
func Categories() []BalanceCategory {
	return []BalanceCategory{
		CategoryAssets,
		CategoryLiabilities,
		CategoryCapital,
		CategoryIncome,
		CategoryExpenses,
		CategoryOther,
	}
}
