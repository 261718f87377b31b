package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/pkg/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, locale i18n.Locale, h gin.HandlerFunc) APIResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.Set(LocaleKey, locale)
		h(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	resp := serve(t, i18n.LocaleEn, func(c *gin.Context) {
		Success(c, gin.H{"id": 1})
	})

	assert.Equal(t, CodeSuccess, resp.ResultCode)
	assert.Equal(t, "Success", resp.ResultMessage)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, resp.Response)
	assert.False(t, resp.ResponseDate.IsZero())
}

func TestFail_DomainErrorIsAlways200(t *testing.T) {
	resp := serve(t, i18n.LocaleKo, func(c *gin.Context) {
		Fail(c, fmt.Errorf("request friend: %w", ErrFriendAlready))
	})

	assert.Equal(t, "F400", resp.ResultCode)
	assert.Equal(t, "이미 친구입니다", resp.ResultMessage)
	assert.Nil(t, resp.Response)
}

func TestFail_UnknownErrorBecomesC500(t *testing.T) {
	resp := serve(t, i18n.LocaleEn, func(c *gin.Context) {
		Fail(c, errors.New("boom"))
	})

	assert.Equal(t, "C500", resp.ResultCode)
	assert.Equal(t, "An internal server error occurred", resp.ResultMessage)
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  *Error
		code string
	}{
		{ErrUserNotFound, "U404"},
		{ErrRoomNotOwner, "R400"},
		{ErrMemoryNotFound, "M404"},
		{ErrTodoNotFound, "T404"},
		{ErrNoticeNotFound, "N404"},
		{ErrPushDisabled, "P500"},
		{ErrUnauthorized, "A401"},
		{ErrTooManyRequests, "C429"},
		{Internal(ResourceFriend, errors.New("db down")), "F500"},
		{Validation(errors.New("missing field")), "C400"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code(), tt.err.Key)
	}
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := Internal(ResourceRoom, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "room.internal", err.Key)
}

func TestEveryErrorKeyHasMessage(t *testing.T) {
	bundle := i18n.Default()
	for _, e := range []*Error{
		ErrUnauthorized, ErrTokenExpired, ErrTokenInvalid, ErrBadRequest, ErrTooManyRequests,
		ErrUserNotFound, ErrStorageDisabled, ErrInvalidProfileFile,
		ErrRoomNotFound, ErrRoomNotMember, ErrRoomNotOwner, ErrPrivateRoom, ErrRoomOwnerNotMember,
		ErrMemoryNotFound, ErrMemoryPeriod, ErrMemoryNotWriter, ErrMemoryNoPermission, ErrMemoryInvalidShare,
		ErrFriendSelf, ErrFriendAlready, ErrFriendBlocked, ErrFriendAlreadyRequested,
		ErrFriendRequestNotFound, ErrFriendNotFound, ErrFriendNotFriend, ErrFriendInvalidStatus,
		ErrTodoNotFound, ErrTodoNotWriter, ErrNoticeNotFound, ErrPushDisabled, ErrPushSendFailed,
	} {
		assert.True(t, bundle.Has(e.Key), "missing catalog key %s", e.Key)
	}
	for r := range resourceLetters {
		if r == ResourceCommon || r == ResourceAuth || r == ResourcePush {
			continue
		}
		assert.True(t, bundle.Has(string(r)+".internal"), "missing %s.internal", r)
	}
}
