package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	var s struct {
		D Duration `json:"d"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"d":"90s"}`), &s))
	assert.Equal(t, 90*time.Second, s.D.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"d":1000000000}`), &s))
	assert.Equal(t, time.Second, s.D.Duration)

	assert.Error(t, json.Unmarshal([]byte(`{"d":"bogus"}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"d":true}`), &s))
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{30 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"30s"`, string(b))
}
