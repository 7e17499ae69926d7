package params

import "fmt"

// ContentType selects which bodies a send operation carries.
type ContentType string

const (
	ContentText ContentType = "text"
	ContentHTML ContentType = "html"
	ContentBoth ContentType = "both"
)

// DefaultContentType applies when the item does not set contentType.
const DefaultContentType = ContentHTML

// IncludesText reports whether the text/plain body is selected.
func (c ContentType) IncludesText() bool { return c == ContentText || c == ContentBoth }

// IncludesHTML reports whether the text/html body is selected.
func (c ContentType) IncludesHTML() bool { return c == ContentHTML || c == ContentBoth }

// Header is a custom header pair. Either field may be empty; empty pairs
// are dropped when the message is built.
type Header struct {
	Name  string
	Value string
}

// Attachment is a file supplied as base64 content.
type Attachment struct {
	FileName    string
	ContentType string
	Content     string
}

// AdditionalFields are the optional send settings. Nil pointers mean the
// field was never set.
type AdditionalFields struct {
	CC                      *string
	BCC                     *string
	ReplyTo                 *string
	ListUnsubscribe         *string
	UnsubscribeURL          *string
	AllowNonTLS             *bool
	ForceSecureNotification *bool
	OverrideOpenTracking    *bool
	OverrideLinkTracking    *bool
	CustomHeaders           []Header
	Attachments             []Attachment
}

// Send is the typed input of the send operation.
type Send struct {
	From        string
	To          string
	Subject     string
	ContentType ContentType
	// TextContent and HTMLContent are nil when the item omits them.
	TextContent *string
	HTMLContent *string
	Additional  AdditionalFields
}

// ParseSend reads the send operation's parameters from p.
func ParseSend(p Parameters) (*Send, error) {
	var (
		s   Send
		err error
	)

	if s.From, err = p.RequiredString("from"); err != nil {
		return nil, err
	}
	if s.To, err = p.RequiredString("to"); err != nil {
		return nil, err
	}
	if s.Subject, err = p.RequiredString("subject"); err != nil {
		return nil, err
	}

	ct, err := p.OptionalString("contentType")
	if err != nil {
		return nil, err
	}
	s.ContentType = DefaultContentType
	if ct != nil {
		switch ContentType(*ct) {
		case ContentText, ContentHTML, ContentBoth:
			s.ContentType = ContentType(*ct)
		default:
			return nil, &Error{Name: "contentType", Reason: fmt.Sprintf("must be one of text, html, both, got %q", *ct)}
		}
	}

	if s.TextContent, err = p.OptionalString("textContent"); err != nil {
		return nil, err
	}
	if s.HTMLContent, err = p.OptionalString("htmlContent"); err != nil {
		return nil, err
	}

	additional, err := p.Collection("additionalFields")
	if err != nil {
		return nil, err
	}
	if s.Additional, err = parseAdditionalFields(additional); err != nil {
		return nil, err
	}

	return &s, nil
}

func parseAdditionalFields(p Parameters) (AdditionalFields, error) {
	var (
		af  AdditionalFields
		err error
	)

	strs := []struct {
		name string
		dst  **string
	}{
		{"cc", &af.CC},
		{"bcc", &af.BCC},
		{"replyTo", &af.ReplyTo},
		{"listUnsubscribe", &af.ListUnsubscribe},
		{"unsubscribeUrl", &af.UnsubscribeURL},
	}
	for _, f := range strs {
		if *f.dst, err = p.OptionalString(f.name); err != nil {
			return af, err
		}
	}

	bools := []struct {
		name string
		dst  **bool
	}{
		{"allowNonTLS", &af.AllowNonTLS},
		{"forceSecureNotification", &af.ForceSecureNotification},
		{"overrideOpenTracking", &af.OverrideOpenTracking},
		{"overrideLinkTracking", &af.OverrideLinkTracking},
	}
	for _, f := range bools {
		if *f.dst, err = p.OptionalBool(f.name); err != nil {
			return af, err
		}
	}

	headers, err := p.List("customHeaders", "header")
	if err != nil {
		return af, err
	}
	for _, h := range headers {
		name, err := h.OptionalString("name")
		if err != nil {
			return af, err
		}
		value, err := h.OptionalString("value")
		if err != nil {
			return af, err
		}
		af.CustomHeaders = append(af.CustomHeaders, Header{Name: deref(name), Value: deref(value)})
	}

	attachments, err := p.List("attachments", "attachment")
	if err != nil {
		return af, err
	}
	for _, a := range attachments {
		var att Attachment
		fields := []struct {
			name string
			dst  *string
		}{
			{"fileName", &att.FileName},
			{"contentType", &att.ContentType},
			{"content", &att.Content},
		}
		for _, f := range fields {
			v, err := a.OptionalString(f.name)
			if err != nil {
				return af, err
			}
			*f.dst = deref(v)
		}
		af.Attachments = append(af.Attachments, att)
	}

	return af, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
