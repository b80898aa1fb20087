// response/error.go
// Package response turns identity API error responses into structured errors.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/finbourne/identity-sdk-go/status"
	"golang.org/x/net/html"
)

// RequestIDHeader carries the server side identifier of a request.
const RequestIDHeader = "lusid-meta-requestId"

// APIError represents an error raised while calling the identity API. It is either built from a
// non-2xx response or, with StatusCode 0, from a failure that happened before any I/O (Err is set).
type APIError struct {
	StatusCode  int      `json:"status_code"`
	Method      string   `json:"method,omitempty"`
	URL         string   `json:"url,omitempty"`
	RequestID   string   `json:"request_id,omitempty"`
	Code        string   `json:"code,omitempty"`
	Message     string   `json:"message"`
	Details     []string `json:"details,omitempty"`
	RawResponse string   `json:"raw_response,omitempty"`
	Transient   bool     `json:"transient"`
	Err         error    `json:"-"`
}

// problemDetails is the JSON error body returned by the identity API.
type problemDetails struct {
	Name         string `json:"name"`
	Code         any    `json:"code"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Detail       string `json:"detail"`
	Instance     string `json:"instance"`
	ErrorDetails []struct {
		ID     string `json:"id"`
		Type   string `json:"type"`
		Detail string `json:"detail"`
	} `json:"errorDetails"`
}

// NewClientError wraps a failure that prevented a call from being sent.
func NewClientError(message string, err error) *APIError {
	return &APIError{Message: message, Err: err}
}

// Error renders the request id on the first line, in the form "Identity request id = <id>",
// followed by the summary.
func (e *APIError) Error() string {
	var b strings.Builder
	if e.RequestID != "" {
		fmt.Fprintf(&b, "Identity request id = %s\n", e.RequestID)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "API Error: StatusCode=%d, Method=%s, URL=%s, Message=%s", e.StatusCode, e.Method, e.URL, e.Message)
	} else {
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// HandleAPIErrorResponse reads the body of a non-2xx response and converts it into an APIError.
// The response body is consumed and closed.
func HandleAPIErrorResponse(resp *http.Response) *APIError {
	apiError := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get(RequestIDHeader),
		Message:    http.StatusText(resp.StatusCode),
		Transient:  status.IsTransientError(resp),
	}
	if resp.Request != nil {
		apiError.Method = resp.Request.Method
		apiError.URL = resp.Request.URL.String()
	}

	defer resp.Body.Close()
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		apiError.RawResponse = "Failed to read response body"
		return apiError
	}
	if len(bodyBytes) == 0 {
		return apiError
	}

	mimeType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch mimeType {
	case "application/json", "application/problem+json":
		parseJSONResponse(bodyBytes, apiError)
	case "application/xml", "text/xml":
		parseXMLResponse(bodyBytes, apiError)
	case "text/html":
		parseHTMLResponse(bodyBytes, apiError)
	case "text/plain":
		parseTextResponse(bodyBytes, apiError)
	default:
		apiError.RawResponse = string(bodyBytes)
	}

	return apiError
}

// parseJSONResponse reads a problem-details body into the APIError.
func parseJSONResponse(bodyBytes []byte, apiError *APIError) {
	apiError.RawResponse = string(bodyBytes)

	var problem problemDetails
	if err := json.Unmarshal(bodyBytes, &problem); err != nil {
		return
	}

	switch {
	case problem.Detail != "":
		apiError.Message = problem.Detail
	case problem.Title != "":
		apiError.Message = problem.Title
	}
	if problem.Name != "" {
		apiError.Code = problem.Name
	} else if problem.Code != nil {
		apiError.Code = fmt.Sprint(problem.Code)
	}
	for _, d := range problem.ErrorDetails {
		if d.Detail != "" {
			apiError.Details = append(apiError.Details, d.Detail)
		}
	}
}

// parseXMLResponse dynamically parses XML error responses and accumulates potential error messages.
func parseXMLResponse(bodyBytes []byte, apiError *APIError) {
	apiError.RawResponse = string(bodyBytes)

	doc, err := xmlquery.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var messages []string
	var traverse func(*xmlquery.Node)
	traverse = func(n *xmlquery.Node) {
		if n.Type == xmlquery.TextNode && strings.TrimSpace(n.Data) != "" {
			messages = append(messages, strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	if len(messages) > 0 {
		apiError.Message = strings.Join(messages, "; ")
	}
}

// parseTextResponse uses a plain text body as the message.
func parseTextResponse(bodyBytes []byte, apiError *APIError) {
	bodyText := strings.TrimSpace(string(bodyBytes))
	apiError.RawResponse = bodyText
	if bodyText != "" {
		apiError.Message = bodyText
	}
}

// parseHTMLResponse extracts the text of <title> and <p> elements, which is where proxies and
// gateways put their error descriptions.
func parseHTMLResponse(bodyBytes []byte, apiError *APIError) {
	apiError.RawResponse = string(bodyBytes)

	doc, err := html.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var messages []string
	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "title") {
			if text := strings.Join(strings.Fields(textContent(n)), " "); text != "" {
				messages = append(messages, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}
	parse(doc)

	if len(messages) > 0 {
		apiError.Message = strings.Join(messages, "; ")
	}
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
		b.WriteString(" ")
	}
	return b.String()
}
