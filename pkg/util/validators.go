package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// validate is the same validator gin uses for binding tags
var validate = validator.New()

// RFC and CURP are Mexican formats the validator has no tag for
var (
	rfcPattern  = regexp.MustCompile(`(?i)^[A-ZÑ&]{3,4}\d{6}[A-Z0-9]{3}$`)
	curpPattern = regexp.MustCompile(`(?i)^[A-Z]{4}\d{6}[HM][A-Z]{5}[A-Z0-9]\d$`)
)

// ValidEmail trims and checks the address with the email tag
func ValidEmail(email string) bool {
	return validate.Var(strings.TrimSpace(email), "required,email") == nil
}

// ValidRFC validates a Mexican RFC for individuals (4 letters) or companies (3 letters)
func ValidRFC(rfc string) bool {
	rfc = strings.TrimSpace(rfc)
	return rfc != "" && rfcPattern.MatchString(rfc)
}

// ValidCURP validates the 18 character Mexican population registry key
func ValidCURP(curp string) bool {
	curp = strings.TrimSpace(curp)
	return curp != "" && curpPattern.MatchString(curp)
}

// ValidColorCode accepts #RRGGBB only; hexcolor alone would also take #RGB
func ValidColorCode(code string) bool {
	return validate.Var(code, "required,hexcolor,len=7") == nil
}

// MinLength counts runes of the trimmed text
func MinLength(text string, min int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= min
}

// SanitizeString trims and collapses inner whitespace to single spaces
func SanitizeString(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// SanitizeUpper is SanitizeString followed by upper-casing
func SanitizeUpper(text string) string {
	return strings.ToUpper(SanitizeString(text))
}

// SanitizePhone keeps digits only
func SanitizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}
