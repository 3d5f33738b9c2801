package identity

import (
	"strings"

	"salonops-backend/internal/domain"
)

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// IsValidCPF checks the two verification digits of an 11-digit CPF.
// Input must already be digits only.
func IsValidCPF(digits string) bool {
	if len(digits) != 11 || onlyDigits(digits) != digits || allSame(digits) {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	first := 11 - sum%11
	if first > 9 {
		first = 0
	}
	if first != int(digits[9]-'0') {
		return false
	}
	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * (11 - i)
	}
	second := 11 - sum%11
	if second > 9 {
		second = 0
	}
	return second == int(digits[10]-'0')
}

// IsValidCNPJ checks the two verification digits of a 14-digit CNPJ.
func IsValidCNPJ(digits string) bool {
	if len(digits) != 14 || onlyDigits(digits) != digits || allSame(digits) {
		return false
	}
	weights1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	sum := 0
	for i := 0; i < 12; i++ {
		sum += int(digits[i]-'0') * weights1[i]
	}
	first := 11 - sum%11
	if first > 9 {
		first = 0
	}
	if first != int(digits[12]-'0') {
		return false
	}
	weights2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	sum = 0
	for i := 0; i < 13; i++ {
		sum += int(digits[i]-'0') * weights2[i]
	}
	second := 11 - sum%11
	if second > 9 {
		second = 0
	}
	return second == int(digits[13]-'0')
}

// FormatCPF validates free-form CPF input and returns it as xxx.xxx.xxx-xx.
func FormatCPF(raw string) (string, error) {
	digits := onlyDigits(raw)
	if !IsValidCPF(digits) {
		return "", domain.Validationf("invalid CPF %q", raw)
	}
	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:], nil
}

// FormatCNPJ validates free-form CNPJ input and returns it as xx.xxx.xxx/xxxx-xx.
func FormatCNPJ(raw string) (string, error) {
	digits := onlyDigits(raw)
	if !IsValidCNPJ(digits) {
		return "", domain.Validationf("invalid CNPJ %q", raw)
	}
	return digits[:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:], nil
}
