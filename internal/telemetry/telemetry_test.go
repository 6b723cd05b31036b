package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()

	for name, opts := range map[string]Options{
		"no endpoint": {ServiceName: "dnd-test-dialog", Enabled: true},
		"disabled":    {ServiceName: "dnd-test-dialog", Endpoint: "http://localhost:4318", Enabled: false},
	} {
		t.Run(name, func(t *testing.T) {
			shutdown, err := Setup(ctx, opts)
			require.NoError(t, err)
			require.NotNil(t, shutdown)
			assert.NoError(t, shutdown(ctx))
		})
	}
}

func TestTracer(t *testing.T) {
	_, span := Tracer().Start(context.Background(), "noop")
	defer span.End()

	assert.NotNil(t, span)
}
