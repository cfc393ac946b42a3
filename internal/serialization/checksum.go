package serialization

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// ChecksumKey is the metadata key holding the hex SHA-256 of the data section.
const ChecksumKey = "born.sha256"

// ComputeChecksum returns the SHA-256 of data.
func ComputeChecksum(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ComputeChecksumReader streams r into a SHA-256 digest.
func ComputeChecksumReader(r io.Reader) (sum [32]byte, err error) {
	h := sha256.New()
	if _, err = io.Copy(h, r); err != nil {
		return sum, err
	}
	h.Sum(sum[:0])
	return sum, nil
}

// ValidateChecksum returns ErrChecksumMismatch unless stored is the hex
// encoding of computed. Case is ignored.
func ValidateChecksum(computed [32]byte, stored string) error {
	want, err := hex.DecodeString(stored)
	if err != nil || len(want) != len(computed) || [32]byte(want) != computed {
		return ErrChecksumMismatch
	}
	return nil
}
