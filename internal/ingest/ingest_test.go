package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSortsByTimestampThenSenderReceiver(t *testing.T) {
	body := `[
		{"sender":"B","receiver":"C","amount":10,"timestamp":200},
		{"sender":"A","receiver":"B","amount":10,"timestamp":100}
	]`
	txs, err := Decode(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "A", txs[0].Sender)
	assert.Equal(t, "B", txs[1].Sender)
}

func TestDecodeRejectsInvalidTransaction(t *testing.T) {
	body := `[{"sender":"","receiver":"B","amount":10,"timestamp":100}]`
	_, err := Decode(strings.NewReader(body))
	assert.Error(t, err)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader("not json"))
	assert.Error(t, err)
}
