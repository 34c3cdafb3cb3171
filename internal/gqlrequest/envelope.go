// Package gqlrequest decodes and analyzes incoming GraphQL requests so
// middleware can log, measure, and trace them without re-parsing the
// document at every layer. Decoding is side-effect free with respect to
// the downstream handler: request bodies are rewound after reading.
package gqlrequest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// Envelope is the transport-level view of a GraphQL request: the raw
// query text and operation selectors, before any parsing has happened.
type Envelope struct {
	Method            string
	ContentType       string
	Query             string
	OperationName     string
	VariablesRaw      json.RawMessage
	DocumentSizeBytes int
}

type postPayload struct {
	Query         string          `json:"query"`
	OperationName string          `json:"operationName"`
	Variables     json.RawMessage `json:"variables"`
}

// DecodeEnvelope extracts the GraphQL request fields from an HTTP
// request. POST bodies are consumed and then restored on r.Body so the
// GraphQL handler downstream can read them again.
func DecodeEnvelope(r *http.Request) (Envelope, error) {
	env := Envelope{
		Method:      r.Method,
		ContentType: r.Header.Get("Content-Type"),
	}

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		env.Query = q.Get("query")
		env.OperationName = q.Get("operationName")
		if vars := q.Get("variables"); vars != "" {
			env.VariablesRaw = json.RawMessage(vars)
		}
		env.DocumentSizeBytes = len(env.Query)
		return env, nil

	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return env, fmt.Errorf("reading request body: %w", err)
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		return decodePostBody(env, body)

	default:
		return env, fmt.Errorf("unsupported method %q", r.Method)
	}
}

func decodePostBody(env Envelope, body []byte) (Envelope, error) {
	mediaType := env.ContentType
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	} else {
		mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	}

	if mediaType == "application/graphql" {
		env.Query = string(body)
		env.DocumentSizeBytes = len(body)
		return env, nil
	}

	// Everything else is treated as the JSON envelope, matching the
	// permissive decoding of the GraphQL handler itself.
	var payload postPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return env, fmt.Errorf("decoding request body: %w", err)
	}
	env.Query = payload.Query
	env.OperationName = payload.OperationName
	if len(payload.Variables) > 0 && string(payload.Variables) != "null" {
		env.VariablesRaw = append(json.RawMessage(nil), payload.Variables...)
	}
	env.DocumentSizeBytes = len(payload.Query)
	return env, nil
}
