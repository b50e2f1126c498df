// Package validation checks buyer data. Everything here is pure: no I/O,
// no logging, inputs are never modified, so it is safe to call on every keystroke.
//
// Rules:
//   - payment must be "card" or "cash";
//   - address must be non-empty after trimming;
//   - email must be non-empty and match \S+@\S+\.\S+;
//   - phone must be non-empty, consist of digits, spaces, "+", "-", "(" and ")",
//     and contain at least MinPhoneDigits digits.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/example/storefront/internal/domain"
)

// MinPhoneDigits is the shortest phone number accepted.
const MinPhoneDigits = 3

const (
	MsgPaymentMissing = "Не выбран способ оплаты"
	MsgAddressMissing = "Укажите адрес доставки"
	MsgEmailMissing   = "Укажите email"
	MsgEmailInvalid   = "Некорректный email"
	MsgPhoneMissing   = "Укажите телефон"
	MsgPhoneInvalid   = "Некорректный телефон"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Errors maps a field to its message. A missing key means the field is valid.
type Errors map[domain.Field]string

// Has reports whether f has an error.
func (e Errors) Has(f domain.Field) bool {
	_, ok := e[f]
	return ok
}

// Messages returns messages for the given fields in order, skipping valid ones.
func (e Errors) Messages(fields ...domain.Field) []string {
	var out []string
	for _, f := range fields {
		if msg, ok := e[f]; ok {
			out = append(out, msg)
		}
	}
	return out
}

// OrderFields and ContactsFields are the fields of each checkout step.
var (
	OrderFields    = []domain.Field{domain.FieldPayment, domain.FieldAddress}
	ContactsFields = []domain.Field{domain.FieldEmail, domain.FieldPhone}
)

// CheckValidity validates every field of b.
func CheckValidity(b domain.BuyerData) Errors {
	errs := Errors{}
	if !b.Payment.Valid() {
		errs[domain.FieldPayment] = MsgPaymentMissing
	}
	if strings.TrimSpace(b.Address) == "" {
		errs[domain.FieldAddress] = MsgAddressMissing
	}
	if msg, ok := checkEmail(b.Email); !ok {
		errs[domain.FieldEmail] = msg
	}
	if msg, ok := checkPhone(b.Phone); !ok {
		errs[domain.FieldPhone] = msg
	}
	return errs
}

// OrderStepValid holds when payment and address have no errors.
func OrderStepValid(e Errors) bool {
	return !e.Has(domain.FieldPayment) && !e.Has(domain.FieldAddress)
}

// ContactsStepValid holds when email and phone have no errors.
func ContactsStepValid(e Errors) bool {
	return !e.Has(domain.FieldEmail) && !e.Has(domain.FieldPhone)
}

func checkEmail(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return MsgEmailMissing, false
	}
	if !emailPattern.MatchString(v) {
		return MsgEmailInvalid, false
	}
	return "", true
}

func checkPhone(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return MsgPhoneMissing, false
	}
	digits := 0
	for i, r := range v {
		switch {
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			digits++
		case r == '+' && i == 0:
		case r == ' ', r == '-', r == '(', r == ')':
		default:
			return MsgPhoneInvalid, false
		}
	}
	if digits < MinPhoneDigits {
		return MsgPhoneInvalid, false
	}
	return "", true
}
