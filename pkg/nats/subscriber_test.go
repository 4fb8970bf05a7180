package nats

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUsesHeaders(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	header := nats.Header{}
	header.Set(HeaderEventType, "RECORDS_DELETED")
	header.Set(HeaderOccurredAt, at.Format(time.RFC3339Nano))

	event, err := Decode(Subject("RECORDS_DELETED"), header, []byte(`{"affected":3}`))
	require.NoError(t, err)
	assert.Equal(t, "RECORDS_DELETED", event.EventType())
	assert.True(t, at.Equal(event.Timestamp()))
	assert.Equal(t, float64(3), event.Payload()["affected"])
}

func TestDecodeFallsBackToSubject(t *testing.T) {
	event, err := Decode("portal.events.X", nats.Header{}, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "portal.events.X", event.EventType())
}

func TestDecodeRejectsInvalidPayload(t *testing.T) {
	_, err := Decode("portal.events.X", nats.Header{}, []byte(`not json`))
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "portal.events.ORGANIZATION_UPDATED", Subject("ORGANIZATION_UPDATED"))
}
