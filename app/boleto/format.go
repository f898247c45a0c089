package boleto

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	transactionRefLength     = 17
	billingAgreementLength   = 7
	billingSequenceRefLength = 10
)

var whitespaceRun = regexp.MustCompile(`[\t\n\v\f\r ]+`)

// GenerateTransactionRef builds a refTran value from the merchant's sequence number.
// A 7 digit billing agreement code takes the first seven positions and the
// sequence the remaining ten. Padding never truncates a longer sequence.
func GenerateTransactionRef(sequenceNumber, billingAgreementCode string) string {
	if utf8.RuneCountInString(billingAgreementCode) == billingAgreementLength {
		return billingAgreementCode + padLeftZero(sequenceNumber, billingSequenceRefLength)
	}
	return padLeftZero(sequenceNumber, transactionRefLength)
}

// PadTransactionRef left pads a stored refTran with zeros to 17 positions.
func PadTransactionRef(ref string) string {
	return padLeftZero(ref, transactionRefLength)
}

// NormalizeAlpha formats free text for the bank's "alpha" fields (nome,
// endereco, cidade): single spaces between words, no spaces around hyphens
// and apostrophes, upper case.
func NormalizeAlpha(text string) string {
	out := whitespaceRun.ReplaceAllString(text, " ")
	out = strings.ReplaceAll(out, "- ", "-")
	out = strings.ReplaceAll(out, " -", "-")
	out = strings.ReplaceAll(out, " '", "'")
	out = strings.ReplaceAll(out, "' ", "'")
	// Casers keep state and must not be shared between goroutines.
	return cases.Upper(language.BrazilianPortuguese).String(out)
}

// StripSeparators removes thousands separators from an amount in cents.
func StripSeparators(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// StripSlashes turns DD/MM/YYYY into DDMMYYYY.
func StripSlashes(s string) string {
	return strings.ReplaceAll(s, "/", "")
}

func StripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func padLeftZero(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat("0", width-n) + s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
