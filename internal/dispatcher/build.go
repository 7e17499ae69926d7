package dispatcher

import (
	"strings"

	"github.com/sungwon/paubox-connector/internal/params"
	"github.com/sungwon/paubox-connector/internal/paubox"
)

// SplitAddresses splits a comma-separated address list and trims each
// entry. Order and duplicates are kept; no syntax check is made.
func SplitAddresses(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// BuildSendRequest assembles the POST /messages body for one item.
func BuildSendRequest(s *params.Send) (*paubox.SendRequest, error) {
	content := paubox.NewFields()
	if s.ContentType.IncludesText() && s.TextContent != nil {
		content.Set(paubox.ContentTypeText, *s.TextContent)
	}
	if s.ContentType.IncludesHTML() && s.HTMLContent != nil {
		content.Set(paubox.ContentTypeHTML, *s.HTMLContent)
	}
	if content.Len() == 0 {
		return nil, &ValidationError{Message: ErrEmptyContent}
	}

	af := s.Additional

	headers := paubox.NewFields()
	headers.Set("subject", s.Subject)
	headers.Set("from", s.From)
	if v := nonEmpty(af.ReplyTo); v != "" {
		headers.Set("reply-to", v)
	}
	if v := nonEmpty(af.ListUnsubscribe); v != "" {
		headers.Set("List-Unsubscribe", v)
	}
	for _, h := range af.CustomHeaders {
		if h.Name == "" || h.Value == "" {
			continue
		}
		headers.Set(h.Name, h.Value)
	}

	msg := paubox.Message{
		Recipients:              SplitAddresses(s.To),
		Headers:                 headers,
		Content:                 content,
		AllowNonTLS:             af.AllowNonTLS,
		ForceSecureNotification: af.ForceSecureNotification,
	}
	if v := nonEmpty(af.CC); v != "" {
		msg.CC = SplitAddresses(v)
	}
	if v := nonEmpty(af.BCC); v != "" {
		msg.BCC = SplitAddresses(v)
	}
	for _, a := range af.Attachments {
		msg.Attachments = append(msg.Attachments, paubox.Attachment{
			FileName:    a.FileName,
			ContentType: a.ContentType,
			Content:     a.Content,
		})
	}

	return &paubox.SendRequest{Data: paubox.SendData{
		Message:              msg,
		OverrideOpenTracking: af.OverrideOpenTracking,
		OverrideLinkTracking: af.OverrideLinkTracking,
		UnsubscribeURL:       nonEmpty(af.UnsubscribeURL),
	}}, nil
}

func nonEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
