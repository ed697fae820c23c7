package hasher

import (
	_ "crypto/sha256" // registers the hash behind digest.SHA256
	"fmt"
	"io"
	"strings"

	"github.com/opencontainers/go-digest"
)

// Algorithm is the digest algorithm behind every content hash.
const Algorithm = digest.SHA256

// HexLen is the length of an encoded digest.
const HexLen = 64

// Digest returns the uppercase hex SHA-256 of data.
func Digest(data []byte) string {
	return strings.ToUpper(Algorithm.FromBytes(data).Encoded())
}

// DigestReader hashes everything read from r.
func DigestReader(r io.Reader) (string, error) {
	if r == nil {
		return "", ErrNilReader
	}
	d, err := Algorithm.FromReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToHash, err)
	}
	return strings.ToUpper(d.Encoded()), nil
}

// Validate reports an error unless s is a well-formed uppercase digest.
func Validate(s string) error {
	if len(s) != HexLen || strings.ToUpper(s) != s {
		return ErrInvalidDigest
	}
	if err := digest.NewDigestFromEncoded(Algorithm, strings.ToLower(s)).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDigest, err)
	}
	return nil
}
