package validate

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"samtech/internal/domain"
)

var (
	reMapLink = regexp.MustCompile(`(?i)^(https?://)?(www\.)?(google\.[a-z]+/maps|maps\.google\.[a-z]+|maps\.app\.goo\.gl|goo\.gl/maps)`)
	reEmail   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ       = regexp.MustCompile(`^[\p{L}\p{N} _@.'+-]{1,50}$`)
	reID      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

	structs = validator.New(validator.WithRequiredStructEnabled())
)

// MapLink accepts Google Maps share links in their common shapes.
func MapLink(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reMapLink.MatchString(s)
}

// Phone only requires a non-empty value.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 32
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, then allows at most 50 letters, digits
// and a few punctuation marks. Longer queries are rejected, not shortened.
// An empty query is valid and means "no filter".
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, reQ.MatchString(s)
}

// ID validates a resource identifier (uuid or seeded slug).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Password enforces a length window plus one lower, upper, digit and symbol.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 72 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// Struct runs `validate:` tags and reports the first failing field as a
// domain validation error.
func Struct(v any) error {
	err := structs.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.Invalid("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return domain.Invalid("%v", err)
}
