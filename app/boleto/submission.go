package boleto

import (
	"net/url"
	"strings"
)

// Field is the name of an input on the bank's payment form.
type Field string

const (
	FieldMerchantID        Field = "idConv"
	FieldTransactionRef    Field = "refTran"
	FieldAmount            Field = "valor"
	FieldLoyaltyPoints     Field = "qtdPontos"
	FieldDueDate           Field = "dtVenc"
	FieldPaymentType       Field = "tpPagamento"
	FieldPayerDocument     Field = "cpfCnpj"
	FieldPayerDocumentKind Field = "indicadorPessoa"
	FieldDiscountAmount    Field = "valorDesconto"
	FieldDiscountDeadline  Field = "dataLimiteDesconto"
	FieldInvoiceKind       Field = "tpDuplicata"
	FieldReturnURL         Field = "urlRetorno"
	FieldConfirmURL        Field = "urlInforma"
	FieldPayerName         Field = "nome"
	FieldPayerAddress      Field = "endereco"
	FieldPayerCity         Field = "cidade"
	FieldPayerState        Field = "uf"
	FieldPayerZip          Field = "cep"
	FieldStoreMessage      Field = "msgLoja"
)

// Order in which the bank form lists its inputs.
var submissionOrder = []Field{
	FieldMerchantID,
	FieldTransactionRef,
	FieldAmount,
	FieldLoyaltyPoints,
	FieldDueDate,
	FieldPaymentType,
	FieldPayerDocument,
	FieldPayerDocumentKind,
	FieldDiscountAmount,
	FieldDiscountDeadline,
	FieldInvoiceKind,
	FieldReturnURL,
	FieldConfirmURL,
	FieldPayerName,
	FieldPayerAddress,
	FieldPayerCity,
	FieldPayerState,
	FieldPayerZip,
	FieldStoreMessage,
}

// Fields returns the form inputs in submission order.
func Fields() []Field {
	out := make([]Field, len(submissionOrder))
	copy(out, submissionOrder)
	return out
}

type FormField struct {
	Name  Field
	Value string
}

// Submission is the ordered set of formatted form inputs.
type Submission []FormField

// BuildSubmission reads every formatted field of req in form order.
// It performs no validation.
func BuildSubmission(req *PaymentRequest) Submission {
	out := make(Submission, 0, len(submissionOrder))
	for _, field := range submissionOrder {
		value, _ := req.Formatted(field)
		out = append(out, FormField{Name: field, Value: value})
	}
	return out
}

// BuildStrictSubmission validates req before building the submission.
func BuildStrictSubmission(req *PaymentRequest) (Submission, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	return BuildSubmission(req), nil
}

func (s Submission) Get(name Field) (string, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func (s Submission) Keys() []Field {
	keys := make([]Field, 0, len(s))
	for _, f := range s {
		keys = append(keys, f.Name)
	}
	return keys
}

func (s Submission) Len() int {
	return len(s)
}

// Values returns the fields as a plain map, losing the order.
func (s Submission) Values() map[string]string {
	out := make(map[string]string, len(s))
	for _, f := range s {
		out[string(f.Name)] = f.Value
	}
	return out
}

// Encode returns the fields form-urlencoded, in submission order.
func (s Submission) Encode() string {
	var b strings.Builder
	for i, f := range s {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(string(f.Name)))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	return b.String()
}
