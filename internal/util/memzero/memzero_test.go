package memzero

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroAll(t *testing.T) {
	a, b := []byte{1, 2, 3}, []byte{4}
	ZeroAll(a, nil, b)
	require.Equal(t, []byte{0, 0, 0}, a)
	require.Equal(t, []byte{0}, b)
}
