package credentials

import (
	"errors"
	"strings"

	"github.com/sungwon/paubox-connector/internal/config"
)

// DefaultBaseURL is the root of the Paubox Email API. The account
// identifier is appended as the final path segment.
const DefaultBaseURL = "https://api.paubox.net/v1/"

// Credentials holds the Paubox API account identifier and key for one
// execution. Values are supplied by the host and never persisted.
type Credentials struct {
	// AccountID is the Paubox API username.
	AccountID string
	// APIKey is the secret sent in the Authorization header.
	APIKey string

	apiRoot string
}

// New creates Credentials for the production Paubox API.
func New(accountID, apiKey string) Credentials {
	return Credentials{AccountID: accountID, APIKey: apiKey}
}

// FromConfig builds Credentials from the paubox config section, applying
// the base URL override when one is configured.
func FromConfig(cfg config.PauboxConfig) Credentials {
	return New(cfg.AccountID, cfg.APIKey).WithBaseURL(cfg.BaseURL)
}

// WithBaseURL returns a copy of c that targets apiRoot instead of the
// production API. apiRoot must end with the segment preceding the
// account ID, e.g. "http://127.0.0.1:8080/v1/".
func (c Credentials) WithBaseURL(apiRoot string) Credentials {
	if apiRoot != "" && !strings.HasSuffix(apiRoot, "/") {
		apiRoot += "/"
	}
	c.apiRoot = apiRoot
	return c
}

// Validate checks that both values are set.
func (c Credentials) Validate() error {
	if c.AccountID == "" {
		return errors.New("paubox credentials: account id is required")
	}
	if c.APIKey == "" {
		return errors.New("paubox credentials: api key is required")
	}
	return nil
}

// AuthorizationHeader returns the Authorization header value.
func (c Credentials) AuthorizationHeader() string {
	return "Token token=" + c.APIKey
}

// BaseURL returns the account-scoped API base URL without a trailing slash.
func (c Credentials) BaseURL() string {
	root := c.apiRoot
	if root == "" {
		root = DefaultBaseURL
	}
	return root + c.AccountID
}

// String redacts the API key.
func (c Credentials) String() string {
	return "paubox(" + c.AccountID + ")"
}
