package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsNoop(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	assert.False(t, svc.IsAvailable())
	assert.NoError(t, svc.SetUser(ctx, 1, map[string]string{"name": "a"}))
	assert.NoError(t, svc.InvalidateUser(ctx, 1))

	var dest map[string]string
	assert.ErrorIs(t, svc.GetUser(ctx, 1, &dest), ErrMiss)
}

func TestUserKey(t *testing.T) {
	assert.Equal(t, "user:42", userKey(42))
}
