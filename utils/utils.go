package utils

import (
	"strings"
	"time"

	"parcel-payment/types"

	"github.com/gofiber/fiber/v2"
)

const maxLoggedBody = 4096

// sanitizeRequestBody keeps request logs small and free of credentials.
func sanitizeRequestBody(c *fiber.Ctx) string {
	body := string(c.Body())
	if len(body) > maxLoggedBody {
		return "[LARGE_REQUEST_BODY_REMOVED]"
	}
	if len(body) > 1000 && isLikelyBase64(body) {
		return "[LARGE_REQUEST_BODY_WITH_POSSIBLE_FILE_CONTENT]"
	}
	return body
}

// sanitizeResponseBody hides gateway client secrets.
func sanitizeResponseBody(body string) string {
	if strings.Contains(body, `"clientSecret"`) {
		return `{"clientSecret":"[REDACTED]"}`
	}
	if len(body) > maxLoggedBody {
		return body[:maxLoggedBody] + "...[TRUNCATED]"
	}
	return body
}

// isLikelyBase64 detects if content looks like base64
func isLikelyBase64(content string) bool {
	if len(content) < 100 {
		return false
	}

	base64Chars := 0
	for _, char := range content {
		if (char >= 'A' && char <= 'Z') ||
			(char >= 'a' && char <= 'z') ||
			(char >= '0' && char <= '9') ||
			char == '+' || char == '/' || char == '=' {
			base64Chars++
		}
	}

	return float64(base64Chars)/float64(len(content)) > 0.8
}

// CreateSanitizedLogEntry copies the request and response out of the fiber
// context. Fiber reuses its buffers after the handler returns, so every field
// is copied before the entry crosses into the async logger.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          string([]byte(c.Method())),
		URL:             string([]byte(c.OriginalURL())),
		RequestBody:     sanitizeRequestBody(c),
		ResponseBody:    sanitizeResponseBody(string(c.Response().Body())),
		RequestHeaders:  redactAuthorization(string(requestHeaders)),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}

func redactAuthorization(headers string) string {
	lines := strings.Split(headers, "\r\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), "authorization:") {
			lines[i] = "Authorization: [REDACTED]"
		}
	}
	return strings.Join(lines, "\r\n")
}
