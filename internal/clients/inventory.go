package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Errors returned by the inventory client. The checkout coordinator treats
// ErrUnavailable the same as an insufficient-stock failure on that line.
var (
	ErrInsufficientStock = errors.New("not enough stock available")
	ErrProductNotFound   = errors.New("product not found")
	ErrUnavailable       = errors.New("inventory service unavailable")
)

// StockMutation is the body of the decrement/increment endpoints.
type StockMutation struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// InventoryClient calls the product service's stock endpoints over HTTP.
// Every call carries a bounded timeout; nothing blocks indefinitely.
type InventoryClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewInventoryClient creates an InventoryClient against baseURL. The stock
// endpoints sit behind JWT auth, so token is sent as a bearer credential on
// every request. A zero timeout falls back to 10 seconds.
func NewInventoryClient(baseURL, token string, timeout time.Duration) *InventoryClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &InventoryClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Reserve atomically decrements stock for a product, failing with
// ErrInsufficientStock when the product cannot cover the quantity.
func (c *InventoryClient) Reserve(ctx context.Context, productID uint, quantity int) error {
	return c.patch(ctx, "/products/decrement", StockMutation{ProductID: productID, Quantity: quantity})
}

// Release returns previously reserved stock. It is the compensating action
// for Reserve and must be called with the same product and quantity.
func (c *InventoryClient) Release(ctx context.Context, productID uint, quantity int) error {
	return c.patch(ctx, "/products/increment", StockMutation{ProductID: productID, Quantity: quantity})
}

func (c *InventoryClient) patch(ctx context.Context, path string, body StockMutation) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures all land here.
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrProductNotFound
	case http.StatusBadRequest:
		return ErrInsufficientStock
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status %d: %s", ErrUnavailable, resp.StatusCode, string(respBody))
	}
}
