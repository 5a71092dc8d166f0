package domain

// TransactionStatus is the status set for bank/crypto transaction entries.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
	TransactionRejected  TransactionStatus = "rejected"
)

// Valid reports whether s is a member of the transaction status set.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionCancelled, TransactionRejected:
		return true
	}
	return false
}

// WithdrawalStatus is the status set for withdrawal entries. It is a distinct
// type from TransactionStatus so the two sets cannot be cross-assigned.
type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "pending"
	WithdrawalApproved  WithdrawalStatus = "approved"
	WithdrawalRejected  WithdrawalStatus = "rejected"
	WithdrawalCompleted WithdrawalStatus = "completed"
)

// Valid reports whether s is a member of the withdrawal status set.
func (s WithdrawalStatus) Valid() bool {
	switch s {
	case WithdrawalPending, WithdrawalApproved, WithdrawalRejected, WithdrawalCompleted:
		return true
	}
	return false
}

const (
	statusCompleted = "completed"
	statusRejected  = "rejected"
)

// TerminalStatus reports whether status marks an entry as processed. The
// terminal pair is the same for both status sets. Transitions out of a
// terminal status are not blocked; processed_at is simply never cleared.
func TerminalStatus(status string) bool {
	return status == statusCompleted || status == statusRejected
}
