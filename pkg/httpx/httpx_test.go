package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		name   string
		header string
		value  string
		want   *int
	}{
		{"integer seconds", "Retry-After", "7", intPtr(7)},
		{"zero", "Retry-After", "0", intPtr(0)},
		{"lowercase header", "retry-after", "12", intPtr(12)},
		{"missing", "", "", nil},
		{"http date is ignored", "Retry-After", "Wed, 21 Oct 2026 07:28:00 GMT", nil},
		{"negative is ignored", "Retry-After", "-5", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set(tt.header, tt.value)
			}
			got := RetryAfterSeconds(h)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "inner", ErrorMessage([]byte(`{"error":{"message":"inner"}}`), "fb"))
	assert.Equal(t, "outer", ErrorMessage([]byte(`{"message":"outer"}`), "fb"))
	// error.message имеет приоритет над message
	assert.Equal(t, "inner", ErrorMessage([]byte(`{"error":{"message":"inner"},"message":"outer"}`), "fb"))
	assert.Equal(t, "fb", ErrorMessage([]byte(`{}`), "fb"))
	assert.Equal(t, "fb", ErrorMessage([]byte(`not json`), "fb"))
	assert.Equal(t, "fb", ErrorMessage(nil, "fb"))
}

func intPtr(v int) *int { return &v }
