package boleto

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "02/01/2006"

var (
	ErrInvalidDate     = errors.New("invalid date, expected DD/MM/YYYY")
	ErrInvalidAmount   = errors.New("invalid amount, expected non-negative integer cents")
	ErrInvalidEnum     = errors.New("value outside the accepted set")
	ErrMissingDocument = errors.New("payer document is empty")
)

// FieldError reports one rejected field. Err is one of the sentinel errors above.
type FieldError struct {
	Field Field
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v (got %q)", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationError collects every FieldError found in a request.
type ValidationError struct {
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "boleto validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		errs = append(errs, f)
	}
	return errs
}

// Validate applies the bank's field rules that BuildSubmission lets through.
// It returns nil or a *ValidationError.
func Validate(req *PaymentRequest) error {
	var fields []*FieldError
	reject := func(field Field, value string, err error) {
		fields = append(fields, &FieldError{Field: field, Value: value, Err: err})
	}

	if !validDate(req.DueDateOriginal()) {
		reject(FieldDueDate, req.DueDateOriginal(), ErrInvalidDate)
	}
	if !isDigits(req.Amount()) {
		reject(FieldAmount, req.AmountOriginal(), ErrInvalidAmount)
	}
	if !req.PaymentType().Valid() {
		reject(FieldPaymentType, req.PaymentType().String(), ErrInvalidEnum)
	}
	if req.PayerDocument() == "" {
		reject(FieldPayerDocument, req.PayerDocumentOriginal(), ErrMissingDocument)
	}
	if !req.PayerDocumentKind().Valid() {
		reject(FieldPayerDocumentKind, req.PayerDocumentKind().String(), ErrInvalidEnum)
	}
	if req.DiscountAmountOriginal() != "" && !isDigits(req.DiscountAmount()) {
		reject(FieldDiscountAmount, req.DiscountAmountOriginal(), ErrInvalidAmount)
	}
	// The deadline is mandatory once a discount is given.
	if req.DiscountAmountOriginal() != "" || req.DiscountDeadlineOriginal() != "" {
		if !validDate(req.DiscountDeadlineOriginal()) {
			reject(FieldDiscountDeadline, req.DiscountDeadlineOriginal(), ErrInvalidDate)
		}
	}
	if !req.InvoiceKind().Valid() {
		reject(FieldInvoiceKind, req.InvoiceKind().String(), ErrInvalidEnum)
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
