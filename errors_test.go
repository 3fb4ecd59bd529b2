package parley_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/parleyhq/parley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportError_Message(t *testing.T) {
	t.Parallel()

	err := &parley.TransportError{StatusCode: 503}
	assert.Equal(t, "transport error: HTTP 503", err.Error())
}

func TestTransportError_UnwrapsThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("webhook: %w", &parley.TransportError{StatusCode: 404})

	var terr *parley.TransportError
	require.True(t, errors.As(wrapped, &terr))
	assert.Equal(t, 404, terr.StatusCode)
}
