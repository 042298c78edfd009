package identity

import "fmt"

// AuthError codes, mapped from provider error messages.
const (
	CodeInvalidCredential = "invalid-credential"
	CodeEmailInUse        = "email-in-use"
	CodeWeakPassword      = "weak-password"
	CodeUserNotFound      = "user-not-found"
	CodeProvider          = "provider-failure"
)

// AuthError is a failed identity-provider operation.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failed (%s): %s", e.Code, e.Message)
}

func mapProviderError(message string) *AuthError {
	code := CodeProvider
	switch {
	case message == "EMAIL_EXISTS":
		code = CodeEmailInUse
	case message == "EMAIL_NOT_FOUND":
		code = CodeUserNotFound
	case message == "INVALID_PASSWORD" || message == "INVALID_LOGIN_CREDENTIALS":
		code = CodeInvalidCredential
	case len(message) >= 13 && message[:13] == "WEAK_PASSWORD":
		code = CodeWeakPassword
	}
	return &AuthError{Code: code, Message: message}
}
