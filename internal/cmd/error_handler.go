package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/httpx"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var apiErr *api.Error

	switch {
	case errors.As(err, &apiErr) && apiErr.Kind == api.KindAuthorization:
		fmt.Fprintf(&msg, "Authentication required for %s %s.\n\n", apiErr.Method, apiErr.Path)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: chirp auth login --token <token>\n")
		msg.WriteString("  - Or export CHIRP_TOKEN\n")

	case httpx.IsCircuitOpen(err):
		msg.WriteString("Service temporarily unavailable (circuit breaker open).\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - The API has had multiple failures recently\n")
		msg.WriteString("  - Wait 30 seconds and retry\n")

	case api.IsRateLimited(err):
		msg.WriteString("Rate limit exceeded.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the remaining budget: chirp ratelimit\n")
		msg.WriteString("  - Wait for the reset time and retry\n")

	case errors.As(err, &apiErr) && apiErr.Kind == api.KindHTTPStatus:
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n\n", apiErr.StatusCode, apiErrorText(apiErr))
		msg.WriteString(suggestionsForStatusCode(apiErr.StatusCode))

	case errors.As(err, &apiErr) && apiErr.Kind == api.KindDeserialization:
		fmt.Fprintf(&msg, "Unexpected response from %s %s: %v\n\n", apiErr.Method, apiErr.Path, apiErr.Cause)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run with --debug to see the exchange\n")
		msg.WriteString("  - Check that the base URL points at the REST API\n")

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the base URL: chirp auth status\n")
		msg.WriteString("  - Check your network connection\n")

	case strings.Contains(err.Error(), "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the rest_base_url spelling in config.yaml\n")
		msg.WriteString("  - Verify your DNS settings\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func apiErrorText(e *api.Error) string {
	if v := e.VendorMessage(); v != "" {
		return v
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "no details"
}

func suggestionsForStatusCode(code int) string {
	var msg strings.Builder
	msg.WriteString("Suggestions:\n")
	switch {
	case code == 401:
		msg.WriteString("  - The stored credentials were rejected\n")
		msg.WriteString("  - Run: chirp auth login\n")
	case code == 403:
		msg.WriteString("  - The account is not allowed to perform this action\n")
		msg.WriteString("  - Duplicate posts and protected users are refused with 403\n")
	case code == 404:
		msg.WriteString("  - Verify the id or screen name exists\n")
	case code == 400:
		msg.WriteString("  - Check the command arguments\n")
	case code >= 500:
		msg.WriteString("  - The server encountered an error; try again later\n")
	default:
		msg.WriteString("  - Run with --debug to see the exchange\n")
	}
	return msg.String()
}
