package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertLogged checks that the captured log output contains every given
// fragment.
func AssertLogged(t *testing.T, logs *SafeBuffer, fragments ...string) {
	t.Helper()

	out := logs.String()
	for _, f := range fragments {
		require.True(t, strings.Contains(out, f), "expected log output to contain %q", f)
	}
}
