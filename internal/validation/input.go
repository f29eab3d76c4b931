package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinPasswordLength    = 8
	MaxPasswordLength    = 72 // лимит bcrypt
	MinNameLength        = 2
	MaxNameLength        = 100
	MaxAddressLength     = 300
	MaxDescriptionLength = 2000

	// Количество в тоннах, цена в рупиях за килограмм.
	MinQuantity = 0.0
	MaxQuantity = 10000.0
	MinPrice    = 0.0
	MaxPrice    = 100000.0
)

var (
	emailRe   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe   = regexp.MustCompile(`^[0-9]{10}$`)
	aadhaarRe = regexp.MustCompile(`^[0-9]{12}$`)
	pincodeRe = regexp.MustCompile(`^[0-9]{6}$`)
)

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email обязателен")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("некорректный формат email")
	}
	return nil
}

// ValidatePassword проверяет длину пароля.
func ValidatePassword(password string) error {
	length := utf8.RuneCountInString(password)
	if length < MinPasswordLength {
		return fmt.Errorf("пароль должен быть не менее %d символов", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("пароль должен быть не более %d байт", MaxPasswordLength)
	}
	return nil
}

// ValidatePhone проверяет индийский мобильный номер (10 цифр).
func ValidatePhone(phone string) error {
	if !phoneRe.MatchString(phone) {
		return fmt.Errorf("телефон должен состоять из 10 цифр")
	}
	return nil
}

// ValidateAadhaar проверяет номер Aadhaar (12 цифр).
func ValidateAadhaar(aadhaar string) error {
	if !aadhaarRe.MatchString(aadhaar) {
		return fmt.Errorf("номер Aadhaar должен состоять из 12 цифр")
	}
	return nil
}

// ValidatePincode проверяет почтовый индекс (6 цифр).
func ValidatePincode(pincode string) error {
	if !pincodeRe.MatchString(pincode) {
		return fmt.Errorf("pincode должен состоять из 6 цифр")
	}
	return nil
}

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateQuantity проверяет объём партии в тоннах.
func ValidateQuantity(quantity float64) error {
	if quantity <= MinQuantity {
		return fmt.Errorf("количество должно быть положительным")
	}
	if quantity > MaxQuantity {
		return fmt.Errorf("количество не может превышать %.0f тонн", MaxQuantity)
	}
	return nil
}

// ValidatePrice проверяет цену за килограмм.
func ValidatePrice(price float64) error {
	if price <= MinPrice {
		return fmt.Errorf("цена должна быть положительной")
	}
	if price > MaxPrice {
		return fmt.Errorf("цена не может превышать %.0f", MaxPrice)
	}
	return nil
}
