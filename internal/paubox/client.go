package paubox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sungwon/paubox-connector/internal/credentials"
)

const (
	messagesPath       = "/messages"
	messageReceiptPath = "/message_receipt"

	// credentialProbeID is a tracking ID that never exists; the API answers
	// 404 for it when the credentials are accepted.
	credentialProbeID = "test-credential-validation"
)

// Client issues requests against the Paubox Email API for one account.
type Client struct {
	creds  credentials.Credentials
	client HTTPClient
}

// NewClient creates a Client that authenticates with creds and sends
// requests through client.
func NewClient(creds credentials.Credentials, client HTTPClient) *Client {
	return &Client{
		creds:  creds,
		client: client,
	}
}

// Credentials returns the credentials the client authenticates with.
func (c *Client) Credentials() credentials.Credentials { return c.creds }

// NewSendRequest builds POST {baseURL}/messages for body.
func NewSendRequest(creds credentials.Credentials, body *SendRequest) (*HTTPRequest, error) {
	payload, err := Encode(body)
	if err != nil {
		return nil, fmt.Errorf("paubox: marshal request: %w", err)
	}
	return &HTTPRequest{
		Method: http.MethodPost,
		URL:    creds.BaseURL() + messagesPath,
		Headers: map[string]string{
			"Authorization": creds.AuthorizationHeader(),
			"Content-Type":  "application/json",
			"Accept":        "application/json",
		},
		Body: payload,
	}, nil
}

// NewDispositionRequest builds GET {baseURL}/message_receipt for the given
// source tracking ID.
func NewDispositionRequest(creds credentials.Credentials, sourceTrackingID string) *HTTPRequest {
	qs := url.Values{}
	qs.Set("sourceTrackingId", sourceTrackingID)
	return &HTTPRequest{
		Method: http.MethodGet,
		URL:    creds.BaseURL() + messageReceiptPath + "?" + qs.Encode(),
		Headers: map[string]string{
			"Authorization": creds.AuthorizationHeader(),
		},
	}
}

// SendMessage posts body to the messages endpoint and returns the raw
// JSON response.
func (c *Client) SendMessage(ctx context.Context, body *SendRequest) (json.RawMessage, error) {
	req, err := NewSendRequest(c.creds, body)
	if err != nil {
		return nil, err
	}
	return c.Execute(ctx, req)
}

// GetDisposition fetches the message receipt for sourceTrackingID and
// returns the raw JSON response.
func (c *Client) GetDisposition(ctx context.Context, sourceTrackingID string) (json.RawMessage, error) {
	return c.Execute(ctx, NewDispositionRequest(c.creds, sourceTrackingID))
}

// Execute sends req and decodes a 2xx body as JSON. Network failures are
// wrapped; non-2xx statuses are returned as *APIError.
func (c *Client) Execute(ctx context.Context, req *HTTPRequest) (json.RawMessage, error) {
	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("paubox: %s %s: %w", req.Method, redactQuery(req.URL), err)
	}
	if ae := ClassifyHTTPError(resp.StatusCode, string(resp.Body)); ae != nil {
		return nil, ae
	}
	return rawJSON(resp.Body), nil
}

// CheckCredentials probes the receipt endpoint with a tracking ID that
// does not exist. A 404 or 2xx answer means the API accepted the
// credentials; any other status is returned as an error.
func (c *Client) CheckCredentials(ctx context.Context) error {
	if err := c.creds.Validate(); err != nil {
		return err
	}
	_, err := c.GetDisposition(ctx, credentialProbeID)
	if err == nil || StatusCode(err) == http.StatusNotFound {
		return nil
	}
	return fmt.Errorf("credential check: %w", err)
}

// rawJSON returns body when it is valid JSON, an empty object for an empty
// body, and body as a JSON string otherwise.
func rawJSON(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage(`{}`)
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := Encode(string(body))
	return json.RawMessage(quoted)
}

func redactQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	return u.String()
}
