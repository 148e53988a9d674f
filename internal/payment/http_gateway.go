package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/config"
)

// HTTPGateway calls a Stripe-compatible charges endpoint.
type HTTPGateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

type chargeResponse struct {
	Charge
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewHTTPGateway builds a gateway from config. The request deadline comes
// from the caller's context, so the client itself has no timeout.
func NewHTTPGateway(cfg config.PaymentConfig) *HTTPGateway {
	return &HTTPGateway{
		baseURL:   cfg.APIURL,
		secretKey: cfg.SecretKey,
		client:    &http.Client{},
	}
}

// Charge posts one charge. It never retries.
func (g *HTTPGateway) Charge(ctx context.Context, amount int64, currency, source string) (*Charge, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("source", source)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read charge response: %w", err)
	}

	var cr chargeResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("failed to parse charge response (%d): %w", resp.StatusCode, err)
	}

	if cr.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrDeclined, cr.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway error (%d): %s", resp.StatusCode, string(body))
	}
	if cr.ID == "" {
		return nil, fmt.Errorf("payment gateway returned a charge without id")
	}
	if cr.Currency == "" {
		cr.Currency = currency
	}
	cr.Currency = strings.ToUpper(cr.Currency)

	return &cr.Charge, nil
}
