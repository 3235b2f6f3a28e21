// ABOUTME: Key derivation maps article URLs to filesystem-safe identifiers
// ABOUTME: Pure string sanitization, no I/O, deterministic for a given URL

package cache

// maxKeyInput bounds the portion of a URL that participates in key
// derivation, which in turn bounds the resulting filename length.
const maxKeyInput = 200

// DeriveKey maps a URL to a filesystem-safe cache key. Only the last
// 200 characters of the URL participate, and every character outside
// [A-Za-z0-9._-] is replaced with '_'. The same input always yields the
// same key; collisions between distinct URLs that sanitize to the same
// string are tolerated and share a cache slot.
func DeriveKey(url string) string {
	if len(url) > maxKeyInput {
		url = url[len(url)-maxKeyInput:]
	}

	b := []byte(url)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}
