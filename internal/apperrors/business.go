package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Business-rule failures of the journal core. Each carries enough structured
// detail for the caller to display the exact invariant violated, and each
// matches its package-level sentinel via errors.Is so handlers can map them
// to status codes without type switches.

var (
	// ErrUnbalancedPosting is the sentinel matched by UnbalancedPostingError.
	ErrUnbalancedPosting = errors.New("debit and credit totals do not balance")
	// ErrPeriodLocked is the sentinel matched by PeriodLockedError.
	ErrPeriodLocked = errors.New("accounting period is locked")
	// ErrAccountInvalid is the sentinel matched by AccountInvalidError.
	ErrAccountInvalid = errors.New("account missing or not postable")
	// ErrDocumentNotEditable is the sentinel matched by DocumentNotEditableError.
	ErrDocumentNotEditable = errors.New("document is not editable")
	// ErrInvalidState is the sentinel matched by InvalidStateError.
	ErrInvalidState = errors.New("invalid state transition")
	// ErrAllocatorBusy is returned when the numbering critical section could
	// not be acquired within the bounded wait. Callers may retry with backoff.
	ErrAllocatorBusy = errors.New("document number allocator busy, retry later")
	// ErrDuplicateNumber is the sentinel matched by DuplicateNumberError.
	ErrDuplicateNumber = errors.New("document number already exists")
)

// UnbalancedPostingError reports both totals so accounting staff can locate
// the offending line.
type UnbalancedPostingError struct {
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

func (e *UnbalancedPostingError) Error() string {
	return fmt.Sprintf("unbalanced posting: debit total %s, credit total %s",
		e.DebitTotal.String(), e.CreditTotal.String())
}

func (e *UnbalancedPostingError) Unwrap() error { return ErrUnbalancedPosting }

// PeriodLockedError reports which period rejected the posting date.
type PeriodLockedError struct {
	Year  int
	Month int
}

func (e *PeriodLockedError) Error() string {
	return fmt.Sprintf("accounting period %02d/%d is locked", e.Month, e.Year)
}

func (e *PeriodLockedError) Unwrap() error { return ErrPeriodLocked }

// Reasons carried by AccountInvalidError. "not postable" is deliberately
// distinct from "not found" so the message can suggest using a child account.
const (
	AccountReasonNotFound    = "does not exist"
	AccountReasonNotPostable = "is not postable, post to a child account"
	AccountReasonInactive    = "is inactive"
)

// AccountInvalidError reports the offending account code and why it was rejected.
type AccountInvalidError struct {
	Code   string
	Reason string
}

func (e *AccountInvalidError) Error() string {
	return fmt.Sprintf("account %s %s", e.Code, e.Reason)
}

func (e *AccountInvalidError) Unwrap() error { return ErrAccountInvalid }

// DocumentNotEditableError reports a mutation attempted outside draft status.
type DocumentNotEditableError struct {
	DocumentID int64
	Status     string
}

func (e *DocumentNotEditableError) Error() string {
	return fmt.Sprintf("document %d has status %s and can no longer be modified", e.DocumentID, e.Status)
}

func (e *DocumentNotEditableError) Unwrap() error { return ErrDocumentNotEditable }

// InvalidStateError reports an illegal lifecycle transition, including the
// idempotency guards on period lock/unlock.
type InvalidStateError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s cannot transition from %s to %s", e.Entity, e.From, e.To)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// DuplicateNumberError is the defensive backstop behind the allocator's
// serialization. It should be unreachable; when it fires it is a hard
// failure, never a silent overwrite.
type DuplicateNumberError struct {
	Number string
}

func (e *DuplicateNumberError) Error() string {
	return fmt.Sprintf("document number %s already exists", e.Number)
}

func (e *DuplicateNumberError) Unwrap() error { return ErrDuplicateNumber }
