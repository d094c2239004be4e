package dynamic

import "strings"

// Sanitize maps a raw key to its stored form: every rune outside
// [A-Za-z0-9_] becomes a single underscore.
//
// Sanitize is idempotent but not injective, "key 1" and "key%1" both
// become "key_1".
func Sanitize(key string) string {
	if isSanitized(key) {
		return key
	}
	return strings.Map(func(r rune) rune {
		if isKeyRune(r) {
			return r
		}
		return '_'
	}, key)
}

func isSanitized(key string) bool {
	for i := 0; i < len(key); i++ {
		if !isKeyRune(rune(key[i])) {
			return false
		}
	}
	return true
}

func isKeyRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
