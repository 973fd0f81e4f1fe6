package relay

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

	"github.com/google/uuid"

	"minidxo/internal/consultation"
	"minidxo/internal/platform/web"
)

// Response size caps. Variables so tests can lower them.
var (
	maxJSONBytes   int64 = 1 << 20
	maxReportBytes int64 = 32 << 20
)

var ErrResponseTooLarge = errors.New("relay response too large")

// Client talks to the relay server on behalf of the terminal client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 150 * time.Second,
		},
	}
}

// Chat implements consultation.Relay.
func (c *Client) Chat(ctx context.Context, transcript []consultation.Turn) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, ChatPath, ChatRequest{Messages: transcript})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var out ChatResponse
	if err := decodeJSON(resp.Body, &out); err != nil {
		return "", fmt.Errorf("decode relay response: %w", err)
	}
	return out.Response, nil
}

// Archive stores a concluded consultation and returns its ID.
func (c *Client) Archive(ctx context.Context, record consultation.Consultation) (uuid.UUID, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/consultations", record)
	if err != nil {
		return uuid.Nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return uuid.Nil, err
	}

	var out consultation.ArchiveResponse
	if err := decodeJSON(resp.Body, &out); err != nil {
		return uuid.Nil, fmt.Errorf("decode archive response: %w", err)
	}
	return uuid.Parse(out.ConsultationID)
}

// Report downloads the PDF report of an archived consultation.
func (c *Client) Report(ctx context.Context, id uuid.UUID) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/consultations/"+id.String()+"/report", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	pdf, err := io.ReadAll(io.LimitReader(resp.Body, maxReportBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if int64(len(pdf)) > maxReportBytes {
		return nil, fmt.Errorf("%w: report exceeds %d bytes", ErrResponseTooLarge, maxReportBytes)
	}
	return pdf, nil
}

func decodeJSON(r io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(r, maxJSONBytes+1))
	if err != nil {
		return err
	}
	if int64(len(data)) > maxJSONBytes {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrResponseTooLarge, maxJSONBytes)
	}
	return json.Unmarshal(data, v)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request: %w", err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return consultation.ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return consultation.ErrQuotaExceeded
	case resp.StatusCode == http.StatusNotFound:
		return consultation.ErrNotFound
	}

	var errResp web.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxJSONBytes)).Decode(&errResp)
	if errResp.Error == "" {
		return fmt.Errorf("relay returned status %s", resp.Status)
	}
	return fmt.Errorf("relay returned status %s: %s", resp.Status, errResp.Error)
}
