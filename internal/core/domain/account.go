package domain

// AccountClass is the statutory classification of an account (TT99 chart).
type AccountClass string

const (
	AccountClassAsset      AccountClass = "ASSET"
	AccountClassLiability  AccountClass = "LIABILITY_EQUITY"
	AccountClassRevenue    AccountClass = "REVENUE"
	AccountClassExpense    AccountClass = "EXPENSE"
	AccountClassOffBalance AccountClass = "OFF_BALANCE"
)

// AccountNature determines the normal balance side of an account.
// Computed accounts net to zero and are never posted directly.
type AccountNature string

const (
	AccountNatureDebit    AccountNature = "DEBIT"
	AccountNatureCredit   AccountNature = "CREDIT"
	AccountNatureComputed AccountNature = "COMPUTED"
)

// MaxAccountLevel is the deepest level the statutory chart allows.
const MaxAccountLevel = 4

// Account represents one entry in the chart of accounts. Codes are
// hierarchical: 111 is the parent of 1111 and 1112. Only leaf accounts
// flagged postable may appear on a journal line.
type Account struct {
	Code       string        `json:"code"` // Primary key, immutable
	Name       string        `json:"name"`
	Class      AccountClass  `json:"class"`
	Level      int16         `json:"level"` // 1..MaxAccountLevel
	ParentCode *string       `json:"parentCode"`
	Nature     AccountNature `json:"nature"`
	Postable   bool          `json:"postable"`
	IsActive   bool          `json:"isActive"`
	AuditFields
}
