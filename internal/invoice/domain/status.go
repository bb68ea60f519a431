package domain

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	StatusDraft            InvoiceStatus = "draft"
	StatusPending          InvoiceStatus = "pending"
	StatusChargedWithError InvoiceStatus = "charged_with_error"
	StatusPaid             InvoiceStatus = "paid"
	StatusCancelled        InvoiceStatus = "cancelled"
	StatusUncollectible    InvoiceStatus = "uncollectible"
	StatusRefunded         InvoiceStatus = "refunded"
	StatusInProtest        InvoiceStatus = "in_protest"
	StatusChargeback       InvoiceStatus = "chargeback"
	StatusUnknown          InvoiceStatus = "unknown"
)

// AllStatuses lists every lifecycle state, StatusUnknown included.
var AllStatuses = []InvoiceStatus{
	StatusDraft,
	StatusPending,
	StatusChargedWithError,
	StatusPaid,
	StatusCancelled,
	StatusUncollectible,
	StatusRefunded,
	StatusInProtest,
	StatusChargeback,
	StatusUnknown,
}

// ParseStatus maps a wire string to a status. Unrecognized input maps to
// StatusUnknown, which has no legal transitions.
func ParseStatus(value string) InvoiceStatus {
	switch InvoiceStatus(value) {
	case StatusDraft, StatusPending, StatusChargedWithError, StatusPaid,
		StatusCancelled, StatusUncollectible, StatusRefunded,
		StatusInProtest, StatusChargeback:
		return InvoiceStatus(value)
	default:
		return StatusUnknown
	}
}

// CanTransition reports whether an invoice may move from old to new.
// Cancelled, uncollectible, refunded, chargeback and unknown are terminal.
func CanTransition(old, new InvoiceStatus) bool {
	switch old {
	case StatusDraft:
		return new == StatusPending
	case StatusPending:
		return new == StatusPaid || new == StatusChargedWithError
	case StatusChargedWithError:
		return new == StatusPaid || new == StatusUncollectible
	case StatusPaid:
		return new == StatusCancelled || new == StatusRefunded || new == StatusInProtest
	case StatusInProtest:
		return new == StatusChargeback
	default:
		return false
	}
}
