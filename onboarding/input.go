package onboarding

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
)

const maxStatementDescriptorLength = 22

// SettingsInput is the edit form: statement descriptors and the business URL.
type SettingsInput struct {
	StatementDescriptor      string
	StatementDescriptorKana  string
	StatementDescriptorKanji string
	URL                      string
}

// BankAccountInput is the add-bank form.
type BankAccountInput struct {
	AccountHolderName string
	RoutingNumber     string
	AccountNumber     string
}

// ValidationError maps form field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

func (in SettingsInput) normalize() SettingsInput {
	in.StatementDescriptor = strings.TrimSpace(in.StatementDescriptor)
	in.StatementDescriptorKana = strings.TrimSpace(in.StatementDescriptorKana)
	in.StatementDescriptorKanji = strings.TrimSpace(in.StatementDescriptorKanji)
	in.URL = strings.TrimSpace(in.URL)
	return in
}

func (in SettingsInput) Validate() error {
	fields := map[string]string{}
	for name, v := range map[string]string{
		"statement_descriptor":       in.StatementDescriptor,
		"statement_descriptor_kana":  in.StatementDescriptorKana,
		"statement_descriptor_kanji": in.StatementDescriptorKanji,
	} {
		if utf8.RuneCountInString(v) > maxStatementDescriptorLength {
			fields[name] = fmt.Sprintf("must be at most %d characters", maxStatementDescriptorLength)
		}
	}
	if in.URL != "" {
		u, err := url.Parse(in.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fields["url"] = "must be an absolute http(s) URL"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (in BankAccountInput) normalize() BankAccountInput {
	in.AccountHolderName = strings.TrimSpace(in.AccountHolderName)
	in.RoutingNumber = stripSeparators(in.RoutingNumber)
	in.AccountNumber = stripSeparators(in.AccountNumber)
	return in
}

func (in BankAccountInput) Validate() error {
	fields := map[string]string{}
	if in.AccountHolderName == "" {
		fields["account_holder_name"] = "is required"
	}
	switch {
	case in.RoutingNumber == "":
		fields["routing_number"] = "is required"
	case !isDigits(in.RoutingNumber):
		fields["routing_number"] = "must contain only digits"
	}
	switch {
	case in.AccountNumber == "":
		fields["account_number"] = "is required"
	case !isDigits(in.AccountNumber):
		fields["account_number"] = "must contain only digits"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// stripSeparators drops the spaces and hyphens people type into bank numbers.
func stripSeparators(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
