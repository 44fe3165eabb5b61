package errors

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := UserError{
		Message:    "Failed to load secrets",
		Details:    "connection refused",
		Suggestion: "Check the Connect server URL",
	}
	msg := err.Error()
	assert.Contains(t, msg, "Failed to load secrets")
	assert.Contains(t, msg, "Details: connection refused")
	assert.Contains(t, msg, "Try: Check the Connect server URL")
}

func TestUserErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("root cause")
	err := UserError{Message: "outer", Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestSecretNotFoundErrorMessages(t *testing.T) {
	t.Parallel()

	withField := SecretNotFoundError{Vault: "app", Item: "db", Field: "password"}
	assert.Contains(t, withField.Error(), `field "password"`)
	assert.Contains(t, withField.Error(), `item "db"`)
	assert.Contains(t, withField.Error(), `vault "app"`)

	itemMiss := SecretNotFoundError{Vault: "app", Item: "db"}
	assert.Contains(t, itemMiss.Error(), `item "db"`)
	assert.Contains(t, itemMiss.Error(), `vault "app"`)
}

func TestTransportErrorVariants(t *testing.T) {
	t.Parallel()

	withStatus := TransportError{Operation: "list vaults", StatusCode: 503, Body: "unavailable"}
	assert.Contains(t, withStatus.Error(), "503")
	assert.Contains(t, withStatus.Error(), "list vaults")
	assert.Contains(t, withStatus.Error(), "unavailable")

	cause := fmt.Errorf("dial tcp: connection refused")
	withoutStatus := TransportError{Operation: "list vaults", Err: cause}
	assert.Contains(t, withoutStatus.Error(), "connection refused")
	assert.ErrorIs(t, withoutStatus, cause)
}

func TestRetriesExhaustedErrorUnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := VaultNotFoundError{Vault: "ghost"}
	err := RetriesExhaustedError{Attempts: 5, Cause: cause}

	assert.Contains(t, err.Error(), "5 attempts")

	var vaultMiss VaultNotFoundError
	require.True(t, goerrors.As(err, &vaultMiss))
	assert.Equal(t, "ghost", vaultMiss.Vault)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, NotFound(VaultNotFoundError{Vault: "v"}))
	assert.True(t, NotFound(SecretNotFoundError{Item: "i"}))
	assert.False(t, NotFound(TransportError{StatusCode: 404}))
	assert.False(t, NotFound(fmt.Errorf("other")))
	assert.False(t, NotFound(MalformedRequestError{Line: "x"}))
}
