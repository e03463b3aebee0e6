package processor

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the sha256 hex digest of the optimized image bytes.
// Bit-identical images always hash identically; it is a dedup key, not a
// security primitive.
func (p *ImageProcessor) Fingerprint(data []byte) string {
	h := sha256.New()
	h.Write(data)

	return hex.EncodeToString(h.Sum(nil))
}
