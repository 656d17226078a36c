package request

// PaymentCallbackRequest is the asynchronous confirmation posted by the
// payment gateway. It may arrive late or more than once.
type PaymentCallbackRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
	IsGroup   bool   `json:"is_group_booking"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
}
