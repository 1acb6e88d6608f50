package archive

import (
	"encoding/hex"
	"fmt"
	"io"

	"lukechampine.com/blake3"
)

// DigestSize is the blake3 output length in bytes.
const DigestSize = 32

// Digest returns the hex blake3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DigestReader hashes everything read from r.
func DigestReader(r io.Reader) (string, error) {
	h := blake3.New(DigestSize, nil)
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("calculating blake3 digest: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
