package filehash

import "strings"

const keyExtension = "txt"

// ValidateKey accepts keys of the form "<name>.txt": exactly two
// dot-separated segments, a non-empty name and the txt extension.
func ValidateKey(key string) error {
	if key == "" {
		return ErrEmptyQuery
	}
	parts := strings.Split(key, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] != keyExtension {
		return ErrInvalidQuery
	}
	return nil
}
