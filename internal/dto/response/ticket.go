package response

type TicketResponse struct {
	BookingID  string `json:"booking_id"`
	TicketCode string `json:"ticket_code"`
	// QRCode is a data URI (image/png, base64) encoding the credential.
	QRCode string `json:"qr_code"`
}
