package dispatcher_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sungwon/paubox-connector/internal/dispatcher"
	"github.com/sungwon/paubox-connector/internal/params"
	"github.com/sungwon/paubox-connector/internal/paubox"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func baseSend(ct params.ContentType) *params.Send {
	return &params.Send{
		From:        "a@dom.com",
		To:          "b@dom.com",
		Subject:     "Hi",
		ContentType: ct,
	}
}

func encode(t *testing.T, v any) string {
	t.Helper()
	b, err := paubox.Encode(v)
	require.NoError(t, err)
	return string(b)
}

func TestSplitAddresses(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		[]string{"a@x.com", "b@y.com", "c@z.com"},
		dispatcher.SplitAddresses("a@x.com, b@y.com ,c@z.com"))
	require.Equal(t,
		[]string{"a@x.com", "a@x.com"},
		dispatcher.SplitAddresses("a@x.com,a@x.com"))
	require.Equal(t, []string{"not-an-address"}, dispatcher.SplitAddresses(" not-an-address "))
}

func TestBuildSendRequest_Content(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ct       params.ContentType
		text     *string
		html     *string
		wantKeys []string
		wantErr  bool
	}{
		{name: "both", ct: params.ContentBoth, text: strPtr("t"), html: strPtr("<p>h</p>"), wantKeys: []string{"text/plain", "text/html"}},
		{name: "text only", ct: params.ContentText, text: strPtr("t"), html: strPtr("<p>h</p>"), wantKeys: []string{"text/plain"}},
		{name: "html only", ct: params.ContentHTML, text: strPtr("t"), html: strPtr("<p>h</p>"), wantKeys: []string{"text/html"}},
		{name: "both with empty strings", ct: params.ContentBoth, text: strPtr(""), html: strPtr(""), wantKeys: []string{"text/plain", "text/html"}},
		{name: "both with text only", ct: params.ContentBoth, text: strPtr(""), wantKeys: []string{"text/plain"}},
		{name: "both with nothing", ct: params.ContentBoth, wantErr: true},
		{name: "text selected but html given", ct: params.ContentText, html: strPtr("<p>h</p>"), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := baseSend(tt.ct)
			s.TextContent, s.HTMLContent = tt.text, tt.html

			req, err := dispatcher.BuildSendRequest(s)
			if tt.wantErr {
				var ve *dispatcher.ValidationError
				require.ErrorAs(t, err, &ve)
				require.Equal(t, dispatcher.ErrEmptyContent, ve.Error())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantKeys, paubox.FieldKeys(req.Data.Message.Content))
		})
	}
}

func TestBuildSendRequest_BothCarriesSuppliedText(t *testing.T) {
	t.Parallel()

	s := baseSend(params.ContentBoth)
	s.TextContent, s.HTMLContent = strPtr("plain"), strPtr("<b>rich</b>")

	req, err := dispatcher.BuildSendRequest(s)
	require.NoError(t, err)

	text, _ := req.Data.Message.Content.Get("text/plain")
	html, _ := req.Data.Message.Content.Get("text/html")
	require.Equal(t, "plain", text)
	require.Equal(t, "<b>rich</b>", html)
}

func TestBuildSendRequest_Headers(t *testing.T) {
	t.Parallel()

	s := baseSend(params.ContentText)
	s.TextContent = strPtr("hello")
	s.Additional.ReplyTo = strPtr("r@dom.com")
	s.Additional.ListUnsubscribe = strPtr("<mailto:u@dom.com>")
	s.Additional.CustomHeaders = []params.Header{
		{Name: "X-Campaign", Value: "fall"},
		{Name: "X-No-Value"},
		{Value: "orphan"},
		{Name: "Priority", Value: "high"},
	}

	req, err := dispatcher.BuildSendRequest(s)
	require.NoError(t, err)

	headers := req.Data.Message.Headers
	require.Equal(t,
		[]string{"subject", "from", "reply-to", "List-Unsubscribe", "X-Campaign", "Priority"},
		paubox.FieldKeys(headers))
	v, _ := headers.Get("Priority")
	require.Equal(t, "high", v)
}

func TestBuildSendRequest_EmptyOptionalStringsAreDropped(t *testing.T) {
	t.Parallel()

	s := baseSend(params.ContentText)
	s.TextContent = strPtr("hello")
	s.Additional.ReplyTo = strPtr("")
	s.Additional.CC = strPtr("")
	s.Additional.UnsubscribeURL = strPtr("")

	req, err := dispatcher.BuildSendRequest(s)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"data":{"message":{"recipients":["b@dom.com"],"headers":{"subject":"Hi","from":"a@dom.com"},"content":{"text/plain":"hello"}}}}`,
		encode(t, req))
}

func TestBuildSendRequest_BooleanPresence(t *testing.T) {
	t.Parallel()

	s := baseSend(params.ContentText)
	s.TextContent = strPtr("hello")
	s.Additional.AllowNonTLS = boolPtr(false)

	req, err := dispatcher.BuildSendRequest(s)
	require.NoError(t, err)

	var decoded struct {
		Data struct {
			Message map[string]json.RawMessage `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(encode(t, req)), &decoded))

	require.Contains(t, decoded.Data.Message, "allowNonTLS")
	require.JSONEq(t, "false", string(decoded.Data.Message["allowNonTLS"]))
	require.NotContains(t, decoded.Data.Message, "forceSecureNotification")
}

func TestBuildSendRequest_EnvelopeSiblings(t *testing.T) {
	t.Parallel()

	s := baseSend(params.ContentHTML)
	s.HTMLContent = strPtr("<p>hi</p>")
	s.Additional.OverrideOpenTracking = boolPtr(false)
	s.Additional.OverrideLinkTracking = boolPtr(true)
	s.Additional.UnsubscribeURL = strPtr("https://dom.com/unsub")
	s.Additional.ForceSecureNotification = boolPtr(true)

	req, err := dispatcher.BuildSendRequest(s)
	require.NoError(t, err)

	var decoded struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(encode(t, req)), &decoded))

	require.JSONEq(t, "false", string(decoded.Data["override_open_tracking"]))
	require.JSONEq(t, "true", string(decoded.Data["override_link_tracking"]))
	require.JSONEq(t, `"https://dom.com/unsub"`, string(decoded.Data["unsubscribe_url"]))

	var message map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decoded.Data["message"], &message))
	for _, key := range []string{"override_open_tracking", "override_link_tracking", "unsubscribe_url"} {
		require.NotContains(t, message, key)
	}
	require.JSONEq(t, "true", string(message["forceSecureNotification"]))
}

func TestBuildSendRequest_RecipientsAndAttachments(t *testing.T) {
	t.Parallel()

	s := baseSend(params.ContentText)
	s.To = "b@dom.com, c@dom.com"
	s.TextContent = strPtr("hello")
	s.Additional.CC = strPtr("d@dom.com , e@dom.com")
	s.Additional.BCC = strPtr("f@dom.com")
	s.Additional.Attachments = []params.Attachment{
		{FileName: "report.pdf", ContentType: "application/pdf", Content: "JVBERi0="},
	}

	req, err := dispatcher.BuildSendRequest(s)
	require.NoError(t, err)

	msg := req.Data.Message
	require.Equal(t, []string{"b@dom.com", "c@dom.com"}, msg.Recipients)
	require.Equal(t, []string{"d@dom.com", "e@dom.com"}, msg.CC)
	require.Equal(t, []string{"f@dom.com"}, msg.BCC)
	require.Equal(t, []paubox.Attachment{
		{FileName: "report.pdf", ContentType: "application/pdf", Content: "JVBERi0="},
	}, msg.Attachments)
}

func TestBuildSendRequest_NoAttachmentsOmitsField(t *testing.T) {
	t.Parallel()

	s := baseSend(params.ContentText)
	s.TextContent = strPtr("hello")
	s.Additional.Attachments = []params.Attachment{}

	req, err := dispatcher.BuildSendRequest(s)
	require.NoError(t, err)
	require.NotContains(t, encode(t, req), "attachments")
}
