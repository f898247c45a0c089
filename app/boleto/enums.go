package boleto

import "strconv"

// PaymentType is the tpPagamento modality code.
type PaymentType int

const (
	PaymentTypeAll              PaymentType = 0
	PaymentTypeBoleto           PaymentType = 2
	PaymentTypeBoletoReissue    PaymentType = 21
	PaymentTypeDebitInternet    PaymentType = 3
	PaymentTypeCreditInternet   PaymentType = 5
	PaymentTypeDebitIndividuals PaymentType = 7
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeAll, PaymentTypeBoleto, PaymentTypeBoletoReissue,
		PaymentTypeDebitInternet, PaymentTypeCreditInternet, PaymentTypeDebitIndividuals:
		return true
	default:
		return false
	}
}

func (t PaymentType) String() string {
	return strconv.Itoa(int(t))
}

// PersonKind is the indicadorPessoa value telling whether cpfCnpj holds a CPF or a CNPJ.
type PersonKind int

const (
	PersonIndividual PersonKind = 1
	PersonEntity     PersonKind = 2
)

func (k PersonKind) Valid() bool {
	return k == PersonIndividual || k == PersonEntity
}

func (k PersonKind) String() string {
	return strconv.Itoa(int(k))
}

// InvoiceKind is the tpDuplicata title type.
type InvoiceKind string

const (
	InvoiceMerchandise InvoiceKind = "DM"
	InvoiceServices    InvoiceKind = "DS"
)

func (k InvoiceKind) Valid() bool {
	return k == InvoiceMerchandise || k == InvoiceServices
}

func (k InvoiceKind) String() string {
	return string(k)
}

const (
	DefaultPaymentType = PaymentTypeBoletoReissue
	DefaultPersonKind  = PersonIndividual
	DefaultInvoiceKind = InvoiceMerchandise
	DefaultURLSuffix   = "/"
)
