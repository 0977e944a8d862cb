package deeds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/msalhab/deedbridge/internal/search"
)

// Transport failure classes, matched with errors.Is. Each per-deed fetch
// surfaces exactly one of these (or a ProviderError) on failure.
var (
	ErrUnauthorized = errors.New("registry rejected the session credential")
	ErrNotFound     = errors.New("deed not found")
	ErrUnavailable  = errors.New("registry service unavailable")
	ErrServer       = errors.New("registry internal error")
)

// ProviderError is a domain-specific failure the registry reports inside a
// transport-successful response body.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Client issues a single lookup call for one deed number.
type Client interface {
	FetchDeed(ctx context.Context, req *search.Request, deedNumber, token string) (json.RawMessage, error)
}

// Registry API paths, relative to the base URL. The two endpoint variants
// accept the same envelope shape with mode-specific fields.
const (
	byIdentityPath = "/api/deeds/by-identity"
	byDatePath     = "/api/deeds/by-date"
)

// byIdentityPayload and byDatePayload are the exact remote request bodies.
// Exactly one mode's fields appear on the wire; there is no shared struct so
// a field can never leak across modes.
type byIdentityPayload struct {
	DeedNumber string `json:"deedNumber"`
	IDType     int    `json:"idType"`
	IDNumber   string `json:"idNumber"`
}

type byDatePayload struct {
	DeedNumber string `json:"deedNumber"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Day        int    `json:"day"`
	IsHijri    bool   `json:"isHijri"`
}

// registryResponse mirrors the remote body: an API-level success flag plus
// either a data object or one of several error fields, depending on the
// failure and the endpoint.
type registryResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Errors  []errorDetail   `json:"errors"`
	Message string          `json:"message"`
}

type errorDetail struct {
	Message string `json:"message"`
}

// The errors list arrives either as plain strings or as {message} objects,
// depending on the endpoint.
func (d *errorDetail) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		d.Message = s
		return nil
	}

	type alias errorDetail
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*d = errorDetail(a)
	return nil
}

// APIClient is the HTTP implementation of Client. Every call carries the
// bearer credential and the transport-level timeout configured here; the
// batch layer imposes no additional deadline.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

func (c *APIClient) FetchDeed(ctx context.Context, req *search.Request, deedNumber, token string) (json.RawMessage, error) {
	path, payload, err := buildPayload(req, deedNumber)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("payload marshal error: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request build error: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("registry call failed: %w", err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("registry response read error: %w", err)
	}

	var parsed registryResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("registry response parse error: %w", err)
	}

	// Transport success alone is not enough: the registry reports
	// domain failures through its own success flag.
	if !parsed.Success {
		return nil, &ProviderError{Message: providerMessage(&parsed)}
	}
	if len(parsed.Data) == 0 || string(parsed.Data) == "null" {
		return nil, &ProviderError{Message: "registry returned success without a deed record"}
	}

	return parsed.Data, nil
}

func buildPayload(req *search.Request, deedNumber string) (string, any, error) {
	switch req.Mode {
	case search.ByIdentity:
		if req.Identity == nil {
			return "", nil, errors.New("identity query is not populated")
		}
		return byIdentityPath, &byIdentityPayload{
			DeedNumber: deedNumber,
			IDType:     int(req.Identity.Type),
			IDNumber:   req.Identity.Number,
		}, nil
	case search.ByDate:
		if req.Date == nil {
			return "", nil, errors.New("date query is not populated")
		}
		return byDatePath, &byDatePayload{
			DeedNumber: deedNumber,
			Year:       req.Date.Year,
			Month:      req.Date.Month,
			Day:        req.Date.Day,
			IsHijri:    req.Date.AlternateCalendar,
		}, nil
	}
	return "", nil, fmt.Errorf("unknown search mode %d", req.Mode)
}

func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w (HTTP %d)", ErrUnauthorized, status)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w (HTTP %d)", ErrNotFound, status)
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w (HTTP %d)", ErrUnavailable, status)
	case status >= 500:
		return fmt.Errorf("%w (HTTP %d)", ErrServer, status)
	}
	return fmt.Errorf("registry call failed with HTTP %d", status)
}

// providerMessage extracts the most informative error text the registry
// offered, falling back to a generic message.
func providerMessage(resp *registryResponse) string {
	if resp.Error != "" {
		return resp.Error
	}
	for _, d := range resp.Errors {
		if d.Message != "" {
			return d.Message
		}
	}
	if resp.Message != "" {
		return resp.Message
	}
	return "registry reported a failure without details"
}
