package types

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

// CreateBoletoRequest carries the raw form values. Field values are kept as
// sent so the bank formatting can be applied on top of them.
type CreateBoletoRequest struct {
	RequestID      string `json:"request_id" form:"request_id"`
	SequenceNumber string `json:"sequence_number" form:"sequence_number"`
	Strict         bool   `json:"strict" form:"strict"`

	MerchantID        int64  `json:"merchant_id" form:"merchant_id"`
	TransactionRef    string `json:"transaction_ref" form:"transaction_ref"`
	Amount            string `json:"amount" form:"amount"`
	LoyaltyPoints     int64  `json:"loyalty_points" form:"loyalty_points"`
	DueDate           string `json:"due_date" form:"due_date"`
	PaymentType       *int   `json:"payment_type" form:"payment_type"`
	PayerDocument     string `json:"payer_document" form:"payer_document"`
	PayerDocumentKind *int   `json:"payer_document_kind" form:"payer_document_kind"`
	DiscountAmount    string `json:"discount_amount" form:"discount_amount"`
	DiscountDeadline  string `json:"discount_deadline" form:"discount_deadline"`
	InvoiceKind       string `json:"invoice_kind" form:"invoice_kind"`
	ReturnURL         string `json:"return_url" form:"return_url"`
	ConfirmURL        string `json:"confirm_url" form:"confirm_url"`
	PayerName         string `json:"payer_name" form:"payer_name"`
	PayerAddress      string `json:"payer_address" form:"payer_address"`
	PayerCity         string `json:"payer_city" form:"payer_city"`
	PayerState        string `json:"payer_state" form:"payer_state"`
	PayerZip          string `json:"payer_zip" form:"payer_zip"`
	StoreMessage      string `json:"store_message" form:"store_message"`
}

func NewCreateBoletoRequestFromContext(ctx echo.Context) (*CreateBoletoRequest, error) {
	var body CreateBoletoRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.RequestID = strings.TrimSpace(body.RequestID)
	if body.RequestID == "" {
		body.RequestID = strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID))
	}
	body.SequenceNumber = strings.TrimSpace(body.SequenceNumber)
	body.TransactionRef = strings.TrimSpace(body.TransactionRef)

	return &body, nil
}

// Validate checks the request shape only. Field formats are the bank's rules
// and are checked by strict mode.
func (r *CreateBoletoRequest) Validate() error {
	if r.TransactionRef == "" && r.SequenceNumber == "" {
		return errors.New("transaction_ref or sequence_number is required")
	}
	if r.TransactionRef != "" && r.SequenceNumber != "" {
		return errors.New("transaction_ref and sequence_number are mutually exclusive")
	}
	if r.MerchantID < 0 {
		return errors.New("merchant_id must be >= 0")
	}
	if r.LoyaltyPoints < 0 {
		return errors.New("loyalty_points must be >= 0")
	}
	return nil
}

type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type SubmissionResponse struct {
	SubmissionID   string      `json:"submission_id,omitempty"`
	TransactionRef string      `json:"transaction_ref"`
	Action         string      `json:"action"`
	Method         string      `json:"method"`
	Charset        string      `json:"charset"`
	Fields         []FormField `json:"fields"`
	Encoded        string      `json:"encoded"`
}

type SubmissionRecordResponse struct {
	SubmissionID   string      `json:"submission_id"`
	RequestID      string      `json:"request_id,omitempty"`
	MerchantID     int64       `json:"merchant_id"`
	TransactionRef string      `json:"transaction_ref"`
	AmountCents    string      `json:"amount_cents"`
	DueDate        string      `json:"due_date"`
	PayerDocument  string      `json:"payer_document,omitempty"`
	Fields         []FormField `json:"fields"`
	CreatedAt      string      `json:"created_at"`
}

type FieldErrorDetail struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

type ValidationErrorResponse struct {
	Error  string             `json:"error"`
	Fields []FieldErrorDetail `json:"fields"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
