package enum

// TransactionStatus mirrors the payment platform's transaction states
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionCompleted, TransactionFailed, TransactionPending, TransactionCancelled:
		return true
	}
	return false
}
