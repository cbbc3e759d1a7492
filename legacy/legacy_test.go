package legacy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/legacy"
)

func TestDefaultReturnsSameInstance(t *testing.T) {
	legacy.Reset()
	p1 := legacy.Default()
	p2 := legacy.Default()
	require.Same(t, p1, p2)
}

func TestResetCreatesFreshInstance(t *testing.T) {
	legacy.Reset()
	p1 := legacy.Default()
	legacy.Reset()
	p2 := legacy.Default()
	require.NotSame(t, p1, p2)
}
