package identity

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"salonops-backend/internal/domain"
)

var brazilAreaCodes = map[string]struct{}{
	"11": {}, "12": {}, "13": {}, "14": {}, "15": {}, "16": {}, "17": {}, "18": {}, "19": {},
	"21": {}, "22": {}, "24": {}, "27": {}, "28": {}, "31": {}, "32": {}, "33": {}, "34": {},
	"35": {}, "37": {}, "38": {}, "41": {}, "42": {}, "43": {}, "44": {}, "45": {}, "46": {},
	"47": {}, "48": {}, "49": {}, "51": {}, "53": {}, "54": {}, "55": {}, "61": {}, "62": {},
	"63": {}, "64": {}, "65": {}, "66": {}, "67": {}, "68": {}, "69": {}, "71": {}, "73": {},
	"74": {}, "75": {}, "77": {}, "79": {}, "81": {}, "82": {}, "83": {}, "84": {}, "85": {},
	"86": {}, "87": {}, "88": {}, "89": {}, "91": {}, "92": {}, "93": {}, "94": {}, "95": {},
	"96": {}, "97": {}, "98": {}, "99": {},
}

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// FormatPhone validates a phone number (10-13 digits) and normalizes it.
// Brazilian numbers get area-code validation and (dd) nnnn-nnnn formatting;
// anything longer is treated as an international number.
func FormatPhone(raw string) (string, error) {
	digits := onlyDigits(raw)
	if len(digits) < 10 || len(digits) > 13 {
		return "", domain.Validationf("phone number must have 10 to 13 digits, got %d", len(digits))
	}

	if len(digits) >= 12 && strings.HasPrefix(digits, "55") {
		area, local := digits[2:4], digits[4:]
		if _, ok := brazilAreaCodes[area]; !ok {
			return "", domain.Validationf("invalid Brazilian area code %q", area)
		}
		switch len(local) {
		case 9:
			return "+55 (" + area + ") " + local[:5] + "-" + local[5:], nil
		case 8:
			return "+55 (" + area + ") " + local[:4] + "-" + local[4:], nil
		}
		return "", domain.Validationf("Brazilian number after +55 and area code must have 8 or 9 digits")
	}

	if len(digits) == 10 || len(digits) == 11 {
		area, local := digits[:2], digits[2:]
		if _, ok := brazilAreaCodes[area]; !ok {
			return "", domain.Validationf("invalid Brazilian area code %q", area)
		}
		if len(local) == 9 {
			return "(" + area + ") " + local[:5] + "-" + local[5:], nil
		}
		return "(" + area + ") " + local[:4] + "-" + local[4:], nil
	}

	return "+" + digits, nil
}

func ValidateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", nil
	}
	if !emailRe.MatchString(email) {
		return "", domain.Validationf("invalid email address %q", raw)
	}
	return strings.ToLower(email), nil
}

var titleCaser = cases.Title(language.BrazilianPortuguese)

// FormatFullName requires at least two words and title-cases the result.
func FormatFullName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if len(strings.Fields(name)) < 2 {
		return "", domain.Validationf("name must be complete (at least two words)")
	}
	return titleCaser.String(name), nil
}
