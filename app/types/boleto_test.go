package types

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNewCreateBoletoRequestFromContextUsesHeaderRequestID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/boletos", bytes.NewBufferString(`{"sequence_number":" 42 ","amount":"1,957","due_date":"25/12/2024","payer_name":"  joão  ","payment_type":2}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderXRequestID, "req-from-header")
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewCreateBoletoRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.RequestID != "req-from-header" {
		t.Fatalf("expected header request id, got %q", parsed.RequestID)
	}
	if parsed.SequenceNumber != "42" {
		t.Fatalf("expected trimmed sequence number, got %q", parsed.SequenceNumber)
	}
	if parsed.PayerName != "  joão  " || parsed.Amount != "1,957" {
		t.Fatalf("expected raw values to be kept, got %q %q", parsed.PayerName, parsed.Amount)
	}
	if parsed.PaymentType == nil || *parsed.PaymentType != 2 {
		t.Fatalf("unexpected payment type: %v", parsed.PaymentType)
	}
	if parsed.PayerDocumentKind != nil {
		t.Fatalf("expected unset payer document kind, got %v", *parsed.PayerDocumentKind)
	}
}

func TestNewCreateBoletoRequestFromContextBadBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/boletos", bytes.NewBufferString(`{bad`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := e.NewContext(req, httptest.NewRecorder())

	if _, err := NewCreateBoletoRequestFromContext(ctx); err == nil {
		t.Fatal("expected bind error")
	}
}

func TestCreateBoletoValidate(t *testing.T) {
	req := &CreateBoletoRequest{}
	if err := req.Validate(); err == nil {
		t.Fatal("expected missing reference error")
	}

	req = &CreateBoletoRequest{TransactionRef: "1", SequenceNumber: "2"}
	if err := req.Validate(); err == nil {
		t.Fatal("expected mutually exclusive error")
	}

	req = &CreateBoletoRequest{SequenceNumber: "2", MerchantID: -1}
	if err := req.Validate(); err == nil {
		t.Fatal("expected merchant id error")
	}

	req = &CreateBoletoRequest{SequenceNumber: "2", Amount: "not validated here"}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestNewCreateBoletoRequestFromContextBindsForm(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/boletos", strings.NewReader("transaction_ref=9&amount=1%2C000&payer_name=ana&strict=true"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	ctx := e.NewContext(req, httptest.NewRecorder())

	parsed, err := NewCreateBoletoRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.TransactionRef != "9" || parsed.Amount != "1,000" || parsed.PayerName != "ana" {
		t.Fatalf("unexpected form binding: %+v", parsed)
	}
	if !parsed.Strict {
		t.Fatal("expected strict flag from form")
	}
}
