package audit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog_AuthenticateFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Log(AuthenticateEvent{
		Scheme:       "signature",
		Identity:     "bar.example.com",
		ClientIP:     "198.51.100.7",
		Success:      false,
		ErrorMessage: "timestamp is too far in the past",
	})

	line := buf.String()
	// facility 10, severity warning (4) => PRI 84
	assert.Contains(t, line, "<84>1 ")
	assert.Contains(t, line, " authn ")
	assert.Contains(t, line, `ip="198.51.100.7"`)
	assert.Contains(t, line, "bar.example.com failed to authenticate with the signature scheme: timestamp is too far in the past")
}

func TestLog_ProvisionSuccess(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Log(ProvisionEvent{
		Admin:   "admin",
		Kind:    "password",
		Subject: "foo.example.com",
		Success: true,
	})

	line := buf.String()
	assert.Contains(t, line, " provision ")
	assert.Contains(t, line, "admin admin created password account foo.example.com")
}

func TestEscapeSDValue(t *testing.T) {
	assert.Equal(t, `"a\\b\"c\]d"`, escapeSDValue(`a\b"c]d`))
}
