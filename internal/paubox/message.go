package paubox

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MIME keys of the message content object.
const (
	ContentTypeText = "text/plain"
	ContentTypeHTML = "text/html"
)

// SendRequest is the body of POST /messages.
type SendRequest struct {
	Data SendData `json:"data"`
}

// SendData wraps the message together with the delivery options that the
// API expects beside it rather than inside it.
type SendData struct {
	Message              Message `json:"message"`
	OverrideOpenTracking *bool   `json:"override_open_tracking,omitempty"`
	OverrideLinkTracking *bool   `json:"override_link_tracking,omitempty"`
	UnsubscribeURL       string  `json:"unsubscribe_url,omitempty"`
}

// Message is the message object of a send request.
type Message struct {
	Recipients              []string     `json:"recipients"`
	Headers                 *Fields      `json:"headers"`
	Content                 *Fields      `json:"content"`
	CC                      []string     `json:"cc,omitempty"`
	BCC                     []string     `json:"bcc,omitempty"`
	AllowNonTLS             *bool        `json:"allowNonTLS,omitempty"`
	ForceSecureNotification *bool        `json:"forceSecureNotification,omitempty"`
	Attachments             []Attachment `json:"attachments,omitempty"`
}

// Attachment is a base64-encoded file carried in the message.
type Attachment struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Fields is a string-to-string JSON object that keeps insertion order.
// Setting an existing key replaces its value in place.
type Fields = orderedmap.OrderedMap[string, string]

// NewFields returns an empty Fields whose values are encoded without HTML
// escaping.
func NewFields() *Fields {
	return orderedmap.New[string, string](orderedmap.WithDisableHTMLEscape[string, string]())
}

// FieldKeys returns the keys of f in insertion order.
func FieldKeys(f *Fields) []string {
	keys := make([]string, 0, f.Len())
	for pair := f.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Encode marshals v without HTML escaping so markup in message bodies is
// sent as written.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
