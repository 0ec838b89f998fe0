package billing

type (
	Plan struct {
		ID           string  `json:"id"`
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		DurationDays int     `json:"durationDays"`
		Description  string  `json:"description,omitempty"`
	}

	// Order is a pending checkout with the payment collaborator.
	Order struct {
		ID     string  `json:"orderId"`
		PlanID string  `json:"planId"`
		Amount float64 `json:"amount"`
		QRUrl  string  `json:"qrUrl,omitempty"`
	}

	// PaymentRecord is one row of the tenant's plan history.
	PaymentRecord struct {
		ID     string  `json:"id"`
		PlanID string  `json:"planId"`
		Amount float64 `json:"amount"`
		Status string  `json:"status"`
		PaidAt string  `json:"paidAt,omitempty"`
	}

	PaymentStatus struct {
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	}
)

// Paid reports a terminal success from the payment collaborator.
func (s PaymentStatus) Paid() bool {
	return s.Status == "PAID" || s.Status == "SUCCESS"
}
