package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	domorder "example.com/loja/internal/domain/order"
	domprice "example.com/loja/internal/domain/pricing"
)

type orderRequest struct {
	Customer domorder.Customer `json:"customer"`
	Items    []domorder.Item   `json:"items"`
}

type orderResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	OrderID string `json:"order_id"`
	Totals  struct {
		Subtotal decimal.Decimal `json:"subtotal"`
		Shipping decimal.Decimal `json:"shipping"`
		Total    decimal.Decimal `json:"total"`
	} `json:"totals"`
}

// Submit implements order.Submitter. Failures come back as
// *order.SubmissionError with the server message when one was sent.
func (c *Client) Submit(ctx context.Context, customer domorder.Customer, items []domorder.Item) (*domorder.Receipt, error) {
	payload, err := json.Marshal(orderRequest{Customer: customer, Items: items})
	if err != nil {
		return nil, &domorder.SubmissionError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+OrdersPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &domorder.SubmissionError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domorder.SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	var body orderResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil || !body.OK {
		return nil, &domorder.SubmissionError{
			StatusCode: resp.StatusCode,
			Message:    body.Message,
			Err:        decodeErr,
		}
	}

	return &domorder.Receipt{
		OrderID: body.OrderID,
		Message: body.Message,
		Totals: domprice.Totals{
			Subtotal: body.Totals.Subtotal,
			Shipping: body.Totals.Shipping,
			Total:    body.Totals.Total,
		},
	}, nil
}
