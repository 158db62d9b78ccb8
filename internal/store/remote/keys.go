package remote

import "fmt"

const (
	// KeyPrefixUser is the prefix for per-account document keys.
	KeyPrefixUser = "websaver:user:"
)

// UserKey returns the Redis key for an account's document.
func UserKey(accountID string) string {
	return KeyPrefixUser + accountID
}

// ExtractAccountID extracts the account ID from a document key.
func ExtractAccountID(key string) (string, error) {
	if len(key) <= len(KeyPrefixUser) {
		return "", fmt.Errorf("invalid user key: %s", key)
	}
	return key[len(KeyPrefixUser):], nil
}
