package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomID_Encode(t *testing.T) {
	tests := []struct {
		name     string
		customID *CustomID
		expected string
		wantErr  bool
	}{
		{
			name:     "simple domain and action",
			customID: &CustomID{Domain: "test", Action: "history"},
			expected: "test:history",
		},
		{
			name:     "with target",
			customID: &CustomID{Domain: "test", Action: "roll", Target: "dialog-1"},
			expected: "test:roll:dialog-1",
		},
		{
			name: "with args",
			customID: &CustomID{
				Domain: "test",
				Action: "adjust",
				Target: "dialog-1",
				Args:   []string{"modifier", "-10"},
			},
			expected: "test:adjust:dialog-1:modifier:-10",
		},
		{
			name: "exceeds max length",
			customID: &CustomID{
				Domain: "test",
				Action: "adjust",
				Target: strings.Repeat("x", MaxCustomIDLength),
			},
			wantErr: true,
		},
		{
			name:     "separator in a part",
			customID: &CustomID{Domain: "test", Action: "roll", Target: "a:b"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.customID.Encode()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseCustomID(t *testing.T) {
	parsed, err := ParseCustomID("test:adjust:dialog-1:modifier:-10")
	require.NoError(t, err)

	assert.Equal(t, "test", parsed.Domain)
	assert.Equal(t, "adjust", parsed.Action)
	assert.Equal(t, "dialog-1", parsed.Target)
	assert.Equal(t, "modifier", parsed.Arg(0))
	assert.Equal(t, "", parsed.Arg(5))

	delta, err := parsed.IntArg(1)
	require.NoError(t, err)
	assert.Equal(t, -10, delta)

	_, err = parsed.IntArg(0)
	assert.Error(t, err)

	_, err = ParseCustomID("")
	assert.Error(t, err)

	_, err = ParseCustomID("test")
	assert.Error(t, err)
}

func TestCustomIDBuilder_RoundTrip(t *testing.T) {
	ids := NewCustomIDBuilder("test")

	encoded := ids.Encode("script", "dialog-7", "3")
	assert.Equal(t, "test:script:dialog-7:3", encoded)

	parsed, err := ParseCustomID(encoded)
	require.NoError(t, err)
	index, err := parsed.IntArg(0)
	require.NoError(t, err)
	assert.Equal(t, 3, index)
}
