package auth

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/pquerna/otp/totp"
)

var b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewOTPSecret returns a fresh base32 TOTP secret.
func NewOTPSecret(issuer, account string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: issuer, AccountName: account})
	if err != nil {
		return "", fmt.Errorf("generate otp secret: %w", err)
	}
	return key.Secret(), nil
}

// OTPProvisioningURI builds the otpauth:// URI authenticator apps scan as a QR code.
func OTPProvisioningURI(issuer, account, secret string) (string, error) {
	raw, err := b32NoPadding.DecodeString(strings.TrimRight(strings.ToUpper(secret), "="))
	if err != nil {
		return "", fmt.Errorf("decode otp secret: %w", err)
	}
	key, err := totp.Generate(totp.GenerateOpts{Issuer: issuer, AccountName: account, Secret: raw})
	if err != nil {
		return "", fmt.Errorf("build otp uri: %w", err)
	}
	return key.URL(), nil
}

// ValidateOTP checks a six digit code against the current time window.
func ValidateOTP(code, secret string) bool {
	return secret != "" && totp.Validate(code, secret)
}
