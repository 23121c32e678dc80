package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampPage(t *testing.T) {
	limit, offset := ClampPage(0, -5)
	require.Equal(t, DefaultPageSize, limit)
	require.Zero(t, offset)

	limit, offset = ClampPage(10000, 40)
	require.Equal(t, MaxPageSize, limit)
	require.Equal(t, 40, offset)

	limit, offset = ClampPage(25, 50)
	require.Equal(t, 25, limit)
	require.Equal(t, 50, offset)
}
