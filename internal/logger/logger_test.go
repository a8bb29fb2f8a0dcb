package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnabled verifies DEBUG selector matching, wildcards and exclusions.
func TestEnabled(t *testing.T) {
	t.Parallel()

	cases := []struct {
		selector string
		ns       string
		want     bool
	}{
		{"", "sf", false},
		{"sf", "sf", true},
		{"*", "sf", true},
		{"sf:*", "sf", false},
		{"sf:*", "sf:update", true},
		{"other,sf", "sf", true},
		{"other sf", "sf", true},
		{"*,-sf", "sf", false},
		{"-sf,*", "sf", false},
		{"*,-sf", "sf:update", true},
		{"[", "sf", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Enabled(tc.selector, tc.ns), "selector %q ns %q", tc.selector, tc.ns)
	}
}

func TestForNamespace_DebugGate(t *testing.T) {
	t.Parallel()

	var on bytes.Buffer
	ForNamespace("sf", "sf", &on).Debugf("%s: %s", "platform", "linux")
	assert.Contains(t, on.String(), "platform: linux")
	assert.Contains(t, on.String(), "sf")

	var off bytes.Buffer
	l := ForNamespace("", "sf", &off)
	l.Debug("hidden")
	l.Warn("shown")
	assert.NotContains(t, off.String(), "hidden")
	assert.Contains(t, off.String(), "shown")
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	require.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	l := ForNamespace("*", "sf", &buf)
	ctx := ToContext(context.Background(), l)
	FromContext(ctx).Debug("from context")
	assert.Contains(t, buf.String(), "from context")
}
