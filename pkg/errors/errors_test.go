package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewUserNotFound("U1")))
	assert.True(t, IsNotFound(NewProductNotFound("P1")))
	assert.False(t, IsNotFound(fmt.Errorf("something else")))
	assert.False(t, IsNotFound(nil))

	// wrapped NotFound errors are still recognized
	wrapped := fmt.Errorf("recommend: %w", NewUserNotFound("U1"))
	assert.True(t, IsNotFound(wrapped))
}

func TestIsErrorType(t *testing.T) {
	assert.True(t, IsErrorType(NewUserNotFound("U1"), ErrorTypeStore))
	assert.True(t, IsErrorType(NewIngestRecordInvalid(10, "missing userId"), ErrorTypeIngest))
	assert.False(t, IsErrorType(NewUserNotFound("U1"), ErrorTypeIngest))
}

func TestErrorMessages(t *testing.T) {
	err := NewUserNotFound("A1CZX3CP8IKQIJ")
	assert.Equal(t, "[store] user not found: A1CZX3CP8IKQIJ", err.Error())
	assert.Equal(t, "A1CZX3CP8IKQIJ", err.UserID)

	wrapped := NewStoreQueryFailed("products_for_user", fmt.Errorf("connection reset"))
	assert.Contains(t, wrapped.Error(), "products_for_user")
	assert.Contains(t, wrapped.Error(), "connection reset")
}
