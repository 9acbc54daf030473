package domain

// PaymentMethod is the payment option chosen on the checkout form
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid checks if the payment method is one the backend accepts
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCreditCard,
		PaymentMethodPayPal,
		PaymentMethodBankTransfer:
		return true
	default:
		return false
	}
}

// RequiresCard reports whether card fields are collected for this method
func (m PaymentMethod) RequiresCard() bool {
	return m == PaymentMethodCreditCard
}

// SubmissionState represents where an order submission currently is
type SubmissionState string

const (
	SubmissionStateIdle       SubmissionState = "idle"
	SubmissionStateSubmitting SubmissionState = "submitting"
	SubmissionStateDone       SubmissionState = "done"
	SubmissionStateFailed     SubmissionState = "failed"
)

// IsValid checks if the submission state is valid
func (s SubmissionState) IsValid() bool {
	switch s {
	case SubmissionStateIdle,
		SubmissionStateSubmitting,
		SubmissionStateDone,
		SubmissionStateFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a state transition is valid
func (s SubmissionState) CanTransitionTo(next SubmissionState) bool {
	switch s {
	case SubmissionStateIdle:
		return next == SubmissionStateSubmitting
	case SubmissionStateSubmitting:
		return next == SubmissionStateDone ||
			next == SubmissionStateFailed
	case SubmissionStateFailed:
		return next == SubmissionStateIdle
	case SubmissionStateDone:
		return false // Terminal state
	default:
		return false
	}
}
