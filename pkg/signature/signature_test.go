package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerify(t *testing.T) {
	body := []byte(`{"event_id":"abc","type":"customer.created"}`)
	secret := "webhook-signature-key"

	assert.True(t, Verify(body, sign(body, secret), secret))
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	body := []byte(`{"amount":100}`)
	secret := "webhook-signature-key"
	header := sign(body, secret)

	tampered := []byte(`{"amount":999}`)
	assert.False(t, Verify(tampered, header, secret))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	body := []byte(`{"amount":100}`)
	assert.False(t, Verify(body, sign(body, "right-key"), "wrong-key"))
}

func TestVerifyRejectsEmptyInputs(t *testing.T) {
	body := []byte("payload")
	secret := "key"
	header := sign(body, secret)

	assert.False(t, Verify(nil, header, secret))
	assert.False(t, Verify(body, "", secret))
	assert.False(t, Verify(body, header, ""))
}
