package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rookgm/kitchenflow/internal/models"
)

// default retry delay when the processor asks to back off without a header
const delaySeconds = 60

// StatusSucceeded is the only processor status treated as a captured payment
const StatusSucceeded = "succeeded"

// Payment is the processor's authoritative record for one payment reference
type Payment struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Method    string `json:"method"`
}

// Client talks to the external payment processor
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new payment processor client
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

// GetPayment fetches the payment record for reference.
// 200 — record returned as is, status verbatim.
// 404 — reference unknown to the processor.
// 429 — processor asks to back off, Retry-After honored.
// 5xx and transport errors — processor unreachable, retryable.
func (c *Client) GetPayment(ctx context.Context, reference string) (*Payment, error) {
	// GET /api/payments/{reference}
	url, err := url.JoinPath(c.baseURL, "api", "payments", reference)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, models.NewProcessorUnavailableError(delaySeconds * time.Second)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		payment := Payment{}
		if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
			return nil, err
		}
		return &payment, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, models.ErrPaymentRefUnknown
	case resp.StatusCode == http.StatusTooManyRequests:
		t := delaySeconds
		if val := resp.Header.Get("Retry-After"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil {
				t = parsed
			}
		}
		return nil, models.NewProcessorUnavailableError(time.Duration(t) * time.Second)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, models.NewProcessorUnavailableError(delaySeconds * time.Second)
	default:
		return nil, models.ErrInternalError
	}
}
