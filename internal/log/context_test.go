package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextWithRequestID(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		requestID string
		want      string
	}{
		{name: "nil context", ctx: nil, requestID: "test-id-123", want: "test-id-123"},
		{name: "background context", ctx: context.Background(), requestID: "req-456", want: "req-456"},
		{name: "empty request ID", ctx: context.Background(), requestID: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithRequestID(tt.ctx, tt.requestID)
			assert.Equal(t, tt.want, RequestIDFromContext(ctx))
		})
	}
}

func TestRequestIDFromContextWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestIDKey, 123)
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(nil))
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Reset()
	Configure(Config{Output: &buf, Level: "debug", Service: "test"})
	t.Cleanup(Reset)

	ctx := ContextWithRequestID(context.Background(), "rid-1")
	l := WithContext(ctx, WithSession("game", "ABC234"))
	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rid-1", entry[FieldRequestID])
	assert.Equal(t, "ABC234", entry[FieldSessionID])
	assert.Equal(t, "game", entry[FieldComponent])
	assert.Equal(t, "test", entry["service"])
}
