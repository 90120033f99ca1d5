package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeValidate(t *testing.T) {
	require.NoError(t, Type("likes").Validate())
	require.Error(t, Type("").Validate())
	require.Error(t, Type(strings.Repeat("a", 256)).Validate())
	require.NoError(t, Type(strings.Repeat("a", 255)).Validate())
}

func TestMaxIDIsAllOnes(t *testing.T) {
	id := maxID()
	for _, b := range id {
		require.Equal(t, byte(0xFF), b)
	}
}

func TestMaxTimestampIsInt32Max(t *testing.T) {
	require.Equal(t, int64(1<<31-1), MaxTimestamp)
}
