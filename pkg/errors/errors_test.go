package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	e := NewNavigation("goto failed", errors.New("net::ERR_CONNECTION_RESET"))
	assert.Equal(t, "navigation error: goto failed: net::ERR_CONNECTION_RESET", e.Error())

	bare := New(ErrorTypeAuth, "wrong password", nil)
	assert.Equal(t, "auth error: wrong password", bare.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	e := NewTimeout("waiting for article", cause)
	assert.ErrorIs(t, e, cause)

	wrapped := fmt.Errorf("attempt 2: %w", e)
	var typed *Error
	assert.True(t, errors.As(wrapped, &typed))
	assert.Equal(t, ErrorTypeTimeout, typed.Type)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeBrowser, TypeOf(NewBrowser("page crashed", nil)))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(errors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	retryable := []ErrorType{ErrorTypeNavigation, ErrorTypeTimeout, ErrorTypeBrowser, ErrorTypeRateLimit}
	for _, typ := range retryable {
		assert.True(t, IsRetryable(typ), "expected %s to be retryable", typ)
	}

	terminal := []ErrorType{ErrorTypeAuth, ErrorTypeParsing, ErrorTypeStorage, ErrorTypeConfig, ErrorTypeUnknown}
	for _, typ := range terminal {
		assert.False(t, IsRetryable(typ), "expected %s not to be retryable", typ)
	}
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(NewTimeout("slow page", nil)))
	assert.False(t, IsRetryableError(NewAuth("login rejected", nil)))
	assert.True(t, IsRetryableError(errors.New("untyped transient fault")))
}
