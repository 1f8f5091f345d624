package auth

import "strings"

// passwordSymbols is the punctuation set that satisfies the symbol rule.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// minPasswordLength is the minimum accepted password length at registration.
const minPasswordLength = 8

// ValidatePassword checks a candidate password against the registration
// policy and returns every unmet rule, not just the first. An empty slice
// means the password is acceptable. The policy applies at registration only;
// login verifies against the stored digest regardless of current policy.
func ValidatePassword(password string) []string {
	var unmet []string

	if len(password) < minPasswordLength {
		unmet = append(unmet, "Password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		unmet = append(unmet, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		unmet = append(unmet, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		unmet = append(unmet, "Password must contain at least one number")
	}
	if !hasSymbol {
		unmet = append(unmet, "Password must contain at least one special character")
	}

	return unmet
}
