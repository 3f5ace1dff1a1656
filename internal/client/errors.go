package client

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"resty.dev/v3"
)

var (
	ErrUnauthorized = errors.New("not authenticated: log in again")
	ErrNotFound     = errors.New("not found")
	ErrCircuitOpen  = errors.New("api is throttling requests")
)

// APIError is any non-2xx answer from the catalog API
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// errorBody is the JSON error shape of the API: {"error": "..."}
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(method, path string, resp *resty.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Method:     method,
		Path:       path,
	}

	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		apiErr.Message = firstNonEmpty(body.Error, body.Message)
	}
	if apiErr.Message == "" {
		apiErr.Message = bodyMessage(resp.Header().Get("Content-Type"), resp.String())
	}

	return apiErr
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// bodyMessage turns a non-JSON error body into one readable line. Gateways and
// the framework's default handler answer with HTML pages.
func bodyMessage(contentType, body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}

	if !strings.Contains(contentType, "html") && !strings.HasPrefix(body, "<") {
		return truncate(whitespaceRegex.ReplaceAllString(body, " "), 200)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return truncate(body, 200)
	}

	for _, selector := range []string{"pre", "h1", "title", "body"} {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text != "" && text != "Error" {
			return truncate(whitespaceRegex.ReplaceAllString(text, " "), 200)
		}
	}

	return ""
}

// truncate keeps at most n runes of s
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
