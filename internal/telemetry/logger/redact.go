package logger

import (
	"log/slog"
	"strings"
)

// Keys whose values are never written verbatim.
var sensitiveKeyPatterns = []string{
	"password",
	"token",
	"authorization",
	"recaptcha",
	"secret",
}

const bearerPrefix = "Bearer "

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		strVal := a.Value.String()
		if strings.HasPrefix(strVal, bearerPrefix) {
			return slog.String(a.Key, bearerPrefix+MaskToken(strVal[len(bearerPrefix):]))
		}
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}
	return a
}

// MaskToken keeps the first and last three characters of a token.
// Tokens of nine characters or fewer are fully masked.
func MaskToken(token string) string {
	if len(token) <= 9 {
		return "***"
	}
	return token[:3] + "..." + token[len(token)-3:]
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
