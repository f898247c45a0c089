package boleto

import (
	"errors"
	"testing"
)

func fieldErrors(t *testing.T, err error) map[Field]error {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T %v", err, err)
	}
	out := map[Field]error{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Err
	}
	return out
}

func TestValidateAcceptsFullRequest(t *testing.T) {
	if err := Validate(newFullRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateAcceptsRequestWithoutDiscount(t *testing.T) {
	req := NewPaymentRequest().SetAmount("1957").SetDueDate("25/12/2024").SetPayerDocument("123.456.789-09")
	if err := Validate(req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateReportsEveryInvalidField(t *testing.T) {
	req := NewPaymentRequest().
		SetAmount("19.57").
		SetDueDate("31/02/2024").
		SetPaymentType(PaymentType(4)).
		SetPayerDocument("...-").
		SetPayerDocumentKind(PersonKind(3)).
		SetDiscountAmount("-10").
		SetInvoiceKind(InvoiceKind("XX"))

	got := fieldErrors(t, Validate(req))

	want := map[Field]error{
		FieldDueDate:           ErrInvalidDate,
		FieldAmount:            ErrInvalidAmount,
		FieldPaymentType:       ErrInvalidEnum,
		FieldPayerDocument:     ErrMissingDocument,
		FieldPayerDocumentKind: ErrInvalidEnum,
		FieldDiscountAmount:    ErrInvalidAmount,
		FieldDiscountDeadline:  ErrInvalidDate,
		FieldInvoiceKind:       ErrInvalidEnum,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d field errors, got %d: %+v", len(want), len(got), got)
	}
	for field, sentinel := range want {
		if !errors.Is(got[field], sentinel) {
			t.Fatalf("%s: expected %v, got %v", field, sentinel, got[field])
		}
	}
}

func TestValidateErrorsMatchSentinels(t *testing.T) {
	err := Validate(NewPaymentRequest().SetAmount("1957").SetDueDate("2024-12-25").SetPayerDocument("1"))
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected errors.Is to reach ErrInvalidDate, got %v", err)
	}
	if errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("did not expect amount error: %v", err)
	}

	var ferr *FieldError
	if !errors.As(err, &ferr) || ferr.Field != FieldDueDate || ferr.Value != "2024-12-25" {
		t.Fatalf("unexpected field error: %+v", ferr)
	}
}

func TestValidateDiscountDeadlineWithoutAmount(t *testing.T) {
	req := NewPaymentRequest().
		SetAmount("1957").
		SetDueDate("25/12/2024").
		SetPayerDocument("12345678909").
		SetDiscountDeadline("99/99/2024")

	got := fieldErrors(t, Validate(req))
	if !errors.Is(got[FieldDiscountDeadline], ErrInvalidDate) || len(got) != 1 {
		t.Fatalf("unexpected errors: %+v", got)
	}
}

func TestValidateAcceptsAllPaymentTypes(t *testing.T) {
	for _, pt := range []PaymentType{0, 2, 21, 3, 5, 7} {
		if !pt.Valid() {
			t.Fatalf("expected %d to be valid", pt)
		}
	}
	for _, pt := range []PaymentType{1, 4, 6, 8, 20, 22} {
		if pt.Valid() {
			t.Fatalf("expected %d to be invalid", pt)
		}
	}
}
