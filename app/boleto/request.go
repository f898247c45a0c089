// Package boleto formats the fields of the Banco do Brasil hosted boleto form.
package boleto

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PaymentRequest holds the fields posted to the bank's hosted boleto page.
// Values are stored exactly as set; the bank encoding is derived on every read.
type PaymentRequest struct {
	merchantID        int64
	transactionRef    string
	amount            string
	loyaltyPoints     int64
	dueDate           string
	paymentType       PaymentType
	payerDocument     string
	payerDocumentKind PersonKind
	discountAmount    string
	discountDeadline  string
	invoiceKind       InvoiceKind
	returnURL         string
	confirmURL        string
	payerName         string
	payerAddress      string
	payerCity         string
	payerState        string
	payerZip          string
	storeMessage      string

	// set records which fields were given through a setter.
	set map[Field]bool
}

func NewPaymentRequest() *PaymentRequest {
	return &PaymentRequest{
		paymentType:       DefaultPaymentType,
		payerDocumentKind: DefaultPersonKind,
		invoiceKind:       DefaultInvoiceKind,
		returnURL:         DefaultURLSuffix,
		confirmURL:        DefaultURLSuffix,
	}
}

func (r *PaymentRequest) SetMerchantID(v int64) *PaymentRequest {
	r.merchantID = v
	r.mark(FieldMerchantID)
	return r
}

// MerchantID is the e-commerce agreement code (idConv).
func (r *PaymentRequest) MerchantID() int64 {
	return r.merchantID
}

func (r *PaymentRequest) SetTransactionRef(v string) *PaymentRequest {
	r.transactionRef = v
	r.mark(FieldTransactionRef)
	return r
}

// TransactionRef returns refTran left padded with zeros to 17 positions.
func (r *PaymentRequest) TransactionRef() string {
	return PadTransactionRef(r.transactionRef)
}

func (r *PaymentRequest) TransactionRefOriginal() string {
	return r.transactionRef
}

// SetAmount takes the total in cents, optionally with comma separators ("1,957").
func (r *PaymentRequest) SetAmount(v string) *PaymentRequest {
	r.amount = v
	r.mark(FieldAmount)
	return r
}

func (r *PaymentRequest) Amount() string {
	return StripSeparators(r.amount)
}

func (r *PaymentRequest) AmountOriginal() string {
	return r.amount
}

// AmountDecimal returns the amount in reais.
func (r *PaymentRequest) AmountDecimal() (decimal.Decimal, error) {
	return centsToDecimal(r.Amount())
}

func (r *PaymentRequest) SetLoyaltyPoints(v int64) *PaymentRequest {
	r.loyaltyPoints = v
	r.mark(FieldLoyaltyPoints)
	return r
}

func (r *PaymentRequest) LoyaltyPoints() int64 {
	return r.loyaltyPoints
}

// SetDueDate takes the due date as DD/MM/YYYY.
func (r *PaymentRequest) SetDueDate(v string) *PaymentRequest {
	r.dueDate = v
	r.mark(FieldDueDate)
	return r
}

func (r *PaymentRequest) DueDate() string {
	return StripSlashes(r.dueDate)
}

func (r *PaymentRequest) DueDateOriginal() string {
	return r.dueDate
}

func (r *PaymentRequest) SetPaymentType(v PaymentType) *PaymentRequest {
	r.paymentType = v
	r.mark(FieldPaymentType)
	return r
}

func (r *PaymentRequest) PaymentType() PaymentType {
	return r.paymentType
}

func (r *PaymentRequest) SetPayerDocument(v string) *PaymentRequest {
	r.payerDocument = v
	r.mark(FieldPayerDocument)
	return r
}

// PayerDocument returns the CPF/CNPJ without mask characters.
func (r *PaymentRequest) PayerDocument() string {
	return StripNonDigits(r.payerDocument)
}

func (r *PaymentRequest) PayerDocumentOriginal() string {
	return r.payerDocument
}

func (r *PaymentRequest) SetPayerDocumentKind(v PersonKind) *PaymentRequest {
	r.payerDocumentKind = v
	r.mark(FieldPayerDocumentKind)
	return r
}

func (r *PaymentRequest) PayerDocumentKind() PersonKind {
	return r.payerDocumentKind
}

func (r *PaymentRequest) SetDiscountAmount(v string) *PaymentRequest {
	r.discountAmount = v
	r.mark(FieldDiscountAmount)
	return r
}

func (r *PaymentRequest) DiscountAmount() string {
	return StripSeparators(r.discountAmount)
}

func (r *PaymentRequest) DiscountAmountOriginal() string {
	return r.discountAmount
}

func (r *PaymentRequest) SetDiscountDeadline(v string) *PaymentRequest {
	r.discountDeadline = v
	r.mark(FieldDiscountDeadline)
	return r
}

func (r *PaymentRequest) DiscountDeadline() string {
	return StripSlashes(r.discountDeadline)
}

func (r *PaymentRequest) DiscountDeadlineOriginal() string {
	return r.discountDeadline
}

func (r *PaymentRequest) SetInvoiceKind(v InvoiceKind) *PaymentRequest {
	r.invoiceKind = v
	r.mark(FieldInvoiceKind)
	return r
}

func (r *PaymentRequest) InvoiceKind() InvoiceKind {
	return r.invoiceKind
}

// SetReturnURL sets the path appended to the return address registered at the agency.
func (r *PaymentRequest) SetReturnURL(v string) *PaymentRequest {
	r.returnURL = v
	r.mark(FieldReturnURL)
	return r
}

func (r *PaymentRequest) ReturnURL() string {
	return r.returnURL
}

// SetConfirmURL sets the path appended to the notification address registered at the agency.
func (r *PaymentRequest) SetConfirmURL(v string) *PaymentRequest {
	r.confirmURL = v
	r.mark(FieldConfirmURL)
	return r
}

func (r *PaymentRequest) ConfirmURL() string {
	return r.confirmURL
}

func (r *PaymentRequest) SetPayerName(v string) *PaymentRequest {
	r.payerName = v
	r.mark(FieldPayerName)
	return r
}

func (r *PaymentRequest) PayerName() string {
	return NormalizeAlpha(r.payerName)
}

func (r *PaymentRequest) PayerNameOriginal() string {
	return r.payerName
}

func (r *PaymentRequest) SetPayerAddress(v string) *PaymentRequest {
	r.payerAddress = v
	r.mark(FieldPayerAddress)
	return r
}

func (r *PaymentRequest) PayerAddress() string {
	return NormalizeAlpha(r.payerAddress)
}

func (r *PaymentRequest) PayerAddressOriginal() string {
	return r.payerAddress
}

func (r *PaymentRequest) SetPayerCity(v string) *PaymentRequest {
	r.payerCity = v
	r.mark(FieldPayerCity)
	return r
}

func (r *PaymentRequest) PayerCity() string {
	return NormalizeAlpha(r.payerCity)
}

func (r *PaymentRequest) PayerCityOriginal() string {
	return r.payerCity
}

func (r *PaymentRequest) SetPayerState(v string) *PaymentRequest {
	r.payerState = v
	r.mark(FieldPayerState)
	return r
}

func (r *PaymentRequest) PayerState() string {
	return r.payerState
}

func (r *PaymentRequest) SetPayerZip(v string) *PaymentRequest {
	r.payerZip = v
	r.mark(FieldPayerZip)
	return r
}

func (r *PaymentRequest) PayerZip() string {
	return r.payerZip
}

func (r *PaymentRequest) SetStoreMessage(v string) *PaymentRequest {
	r.storeMessage = v
	r.mark(FieldStoreMessage)
	return r
}

func (r *PaymentRequest) StoreMessage() string {
	return r.storeMessage
}

// Original returns the raw value of a form field as it was set.
func (r *PaymentRequest) Original(field Field) (string, bool) {
	switch field {
	case FieldMerchantID:
		return r.formatInt(FieldMerchantID, r.merchantID), true
	case FieldTransactionRef:
		return r.transactionRef, true
	case FieldAmount:
		return r.amount, true
	case FieldLoyaltyPoints:
		return r.formatInt(FieldLoyaltyPoints, r.loyaltyPoints), true
	case FieldDueDate:
		return r.dueDate, true
	case FieldPaymentType:
		return r.paymentType.String(), true
	case FieldPayerDocument:
		return r.payerDocument, true
	case FieldPayerDocumentKind:
		return r.payerDocumentKind.String(), true
	case FieldDiscountAmount:
		return r.discountAmount, true
	case FieldDiscountDeadline:
		return r.discountDeadline, true
	case FieldInvoiceKind:
		return r.invoiceKind.String(), true
	case FieldReturnURL:
		return r.returnURL, true
	case FieldConfirmURL:
		return r.confirmURL, true
	case FieldPayerName:
		return r.payerName, true
	case FieldPayerAddress:
		return r.payerAddress, true
	case FieldPayerCity:
		return r.payerCity, true
	case FieldPayerState:
		return r.payerState, true
	case FieldPayerZip:
		return r.payerZip, true
	case FieldStoreMessage:
		return r.storeMessage, true
	default:
		return "", false
	}
}

// Formatted returns the bank encoding of a form field.
func (r *PaymentRequest) Formatted(field Field) (string, bool) {
	switch field {
	case FieldMerchantID:
		return r.formatInt(FieldMerchantID, r.MerchantID()), true
	case FieldTransactionRef:
		return r.TransactionRef(), true
	case FieldAmount:
		return r.Amount(), true
	case FieldLoyaltyPoints:
		return r.formatInt(FieldLoyaltyPoints, r.LoyaltyPoints()), true
	case FieldDueDate:
		return r.DueDate(), true
	case FieldPaymentType:
		return r.PaymentType().String(), true
	case FieldPayerDocument:
		return r.PayerDocument(), true
	case FieldPayerDocumentKind:
		return r.PayerDocumentKind().String(), true
	case FieldDiscountAmount:
		return r.DiscountAmount(), true
	case FieldDiscountDeadline:
		return r.DiscountDeadline(), true
	case FieldInvoiceKind:
		return r.InvoiceKind().String(), true
	case FieldReturnURL:
		return r.ReturnURL(), true
	case FieldConfirmURL:
		return r.ConfirmURL(), true
	case FieldPayerName:
		return r.PayerName(), true
	case FieldPayerAddress:
		return r.PayerAddress(), true
	case FieldPayerCity:
		return r.PayerCity(), true
	case FieldPayerState:
		return r.PayerState(), true
	case FieldPayerZip:
		return r.PayerZip(), true
	case FieldStoreMessage:
		return r.StoreMessage(), true
	default:
		return "", false
	}
}

// IsSet reports whether field was given through its setter. Defaults from
// NewPaymentRequest do not count.
func (r *PaymentRequest) IsSet(field Field) bool {
	return r.set[field]
}

func (r *PaymentRequest) mark(field Field) {
	if r.set == nil {
		r.set = make(map[Field]bool, len(submissionOrder))
	}
	r.set[field] = true
}

// Unset integer fields go out empty, the same as an absent form value. An
// explicit zero goes out as "0".
func (r *PaymentRequest) formatInt(field Field, v int64) string {
	if v == 0 && !r.IsSet(field) {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func centsToDecimal(cents string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(cents)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Shift(-2), nil
}
