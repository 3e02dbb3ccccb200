package payment

// CreateIntentRequest is the body of POST /create-payment-intent.
type CreateIntentRequest struct {
	ParcelID string `json:"parcelId"`
}

type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// ConfirmPaymentRequest is the body of PATCH /parcels/payment/:id.
type ConfirmPaymentRequest struct {
	TransactionID string `json:"transactionId"`
	Email         string `json:"email"`
	Method        string `json:"method"`
}
