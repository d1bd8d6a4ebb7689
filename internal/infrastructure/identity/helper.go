package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// errIntrospectTransient marks failures that should trip the circuit
// breaker: transport errors and 5xx responses. Caller mistakes never do.
var errIntrospectTransient = errors.New("identity introspection transient failure")

func isCircuitFailure(err error) bool {
	return errors.Is(err, errIntrospectTransient)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
