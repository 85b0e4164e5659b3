package auth

import (
	"net/url"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPSecretRoundTrip(t *testing.T) {
	secret, err := NewOTPSecret("VideoHub", "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, secret)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	assert.True(t, ValidateOTP(code, secret))
	assert.False(t, ValidateOTP("000000x", secret))
	assert.False(t, ValidateOTP(code, ""))
}

func TestOTPProvisioningURI(t *testing.T) {
	secret, err := NewOTPSecret("VideoHub", "alice")
	require.NoError(t, err)

	uri, err := OTPProvisioningURI("VideoHub", "alice", secret)
	require.NoError(t, err)

	parsed, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", parsed.Scheme)
	assert.Equal(t, "totp", parsed.Host)
	assert.Equal(t, secret, parsed.Query().Get("secret"))
	assert.Equal(t, "VideoHub", parsed.Query().Get("issuer"))

	_, err = OTPProvisioningURI("VideoHub", "alice", "not base32!")
	assert.Error(t, err)
}
