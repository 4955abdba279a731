package utils

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"markiz-admin/types"

	"github.com/gofiber/fiber/v2"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// ValidatePhoneNumber accepts international numbers like +252600000000 as
// well as local digit-only forms.
func ValidatePhoneNumber(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

// sanitizeRequestBody strips credentials and oversized payloads from request
// bodies before they reach the logs table.
func sanitizeRequestBody(c *fiber.Ctx) string {
	body := string(c.Body())

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		for key := range parsed {
			lower := strings.ToLower(key)
			if strings.Contains(lower, "password") || lower == "confirm" || lower == "code" {
				parsed[key] = "[REDACTED]"
			}
		}
		if jsonBytes, err := json.Marshal(parsed); err == nil {
			body = string(jsonBytes)
		}
	}

	if len(body) > 10000 {
		return "[LARGE_REQUEST_BODY_TRUNCATED]"
	}
	return body
}

// CreateSanitizedLogEntry creates a deep copied and sanitized log entry for
// the async logger. Copies guard against fiber reusing its buffers after the
// handler returns.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := sanitizeRequestBody(c)
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          method,
		URL:             url,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}
