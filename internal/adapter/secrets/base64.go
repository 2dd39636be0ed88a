package secrets

import (
	"encoding/base64"
	"fmt"

	"github.com/wifight/wifight/internal/ports"
)

// Base64Codec obfuscates controller credentials at rest. It is reversible
// encoding, not encryption; the threat model is casual database inspection.
type Base64Codec struct{}

func NewBase64Codec() ports.CredentialCodec {
	return &Base64Codec{}
}

func (c *Base64Codec) Encode(plaintext string) string {
	return base64.StdEncoding.EncodeToString([]byte(plaintext))
}

func (c *Base64Codec) Decode(stored string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("secrets: decode credential: %w", err)
	}
	return string(raw), nil
}
