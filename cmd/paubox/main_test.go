package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sungwon/paubox-connector/internal/dispatcher"
	"github.com/sungwon/paubox-connector/internal/params"
)

func TestParseItems_YAML(t *testing.T) {
	data := []byte(`
- from: sender@example.com
  to: "a@example.com, b@example.com"
  subject: Hello
  textContent: hi
  additionalFields:
    allowNonTLS: false
    customHeaders:
      header:
        - name: X-Campaign
          value: fall
- sourceTrackingId: abc-123
`)
	items, err := parseItems(data)
	require.NoError(t, err)
	require.Len(t, items, 2)

	send, err := params.ParseSend(items[0])
	require.NoError(t, err)
	require.Equal(t, "sender@example.com", send.From)
	require.NotNil(t, send.Additional.AllowNonTLS)
	require.False(t, *send.Additional.AllowNonTLS)
	require.Len(t, send.Additional.CustomHeaders, 1)
	require.Equal(t, "X-Campaign", send.Additional.CustomHeaders[0].Name)

	id, err := items[1].RequiredString("sourceTrackingId")
	require.NoError(t, err)
	require.Equal(t, "abc-123", id)
}

func TestParseItems_JSON(t *testing.T) {
	items, err := parseItems([]byte(`[{"sourceTrackingId":"x"}, null]`))
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Empty(t, items[1])
}

func TestParseItems_NotAList(t *testing.T) {
	_, err := parseItems([]byte(`from: a@example.com`))
	require.Error(t, err)
}

func TestWriteOutputs(t *testing.T) {
	var buf bytes.Buffer
	err := writeOutputs(&buf, []dispatcher.Output{{
		JSON:       json.RawMessage(`{"error":"<b>"}`),
		PairedItem: dispatcher.PairedItem{Item: 0},
	}})
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"error": "<b>"`)
	require.Contains(t, buf.String(), `"pairedItem"`)

	buf.Reset()
	require.NoError(t, writeOutputs(&buf, nil))
	require.Equal(t, "[]\n", buf.String())
}
