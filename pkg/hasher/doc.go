// Package hasher computes the content digests served by filehash.
//
// A digest is the SHA-256 of the raw content bytes, rendered as 64 uppercase
// hexadecimal characters. The format is fixed so that values stay comparable
// across service instances and releases:
//
//	h := hasher.Digest([]byte("hello"))
//	// 2CF24DBA5FB0A30E26E83B2AC5B9E29E1B161E5C1FA7425E73043362938B9824
//
// DigestReader streams content instead of holding it in memory, and
// Validate checks that a string has the digest shape.
package hasher
