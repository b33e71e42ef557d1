package format

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vulntor/uihost/pkg/server"
)

func TestReported(t *testing.T) {
	require.NoError(t, Reported(nil))

	cause := server.NewInvalidPortError(0)
	err := Reported(cause)
	require.True(t, IsReported(err))
	require.True(t, IsReported(fmt.Errorf("wrapped: %w", err)))
	require.True(t, errors.Is(err, server.ErrInvalidPort))
	require.Equal(t, cause.Error(), err.Error())
	require.Equal(t, 2, server.ExitCode(err))

	require.False(t, IsReported(cause))
}
