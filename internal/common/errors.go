package common

import (
	"errors"
	"fmt"
)

// Resource identifies the domain an error belongs to
type Resource string

const (
	ResourceCommon Resource = "common"
	ResourceAuth   Resource = "auth"
	ResourceUser   Resource = "user"
	ResourceRoom   Resource = "room"
	ResourceMemory Resource = "memory"
	ResourceFriend Resource = "friend"
	ResourceTodo   Resource = "todo"
	ResourceNotice Resource = "notice"
	ResourcePush   Resource = "push"
)

var resourceLetters = map[Resource]string{
	ResourceCommon: "C",
	ResourceAuth:   "A",
	ResourceUser:   "U",
	ResourceRoom:   "R",
	ResourceMemory: "M",
	ResourceFriend: "F",
	ResourceTodo:   "T",
	ResourceNotice: "N",
	ResourcePush:   "P",
}

// Kind classifies an error the way the API reports it
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindTooManyRequests
	KindInternal
)

var kindCodes = map[Kind]string{
	KindBadRequest:      "400",
	KindUnauthorized:    "401",
	KindNotFound:        "404",
	KindTooManyRequests: "429",
	KindInternal:        "500",
}

// Error is a domain error carrying a message catalog key.
// Code() is the application level result code, e.g. F400.
type Error struct {
	Resource Resource
	Kind     Kind
	Key      string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Key, e.Err)
	}
	return e.Key
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the result code reported in the response envelope
func (e *Error) Code() string {
	letter, ok := resourceLetters[e.Resource]
	if !ok {
		letter = "C"
	}
	return letter + kindCodes[e.Kind]
}

// NotFound creates a not-found error for resource r
func NotFound(r Resource, key string) *Error {
	return &Error{Resource: r, Kind: KindNotFound, Key: key}
}

// BadRequest creates a bad-request error for resource r
func BadRequest(r Resource, key string) *Error {
	return &Error{Resource: r, Kind: KindBadRequest, Key: key}
}

// Internal wraps an unexpected error (DB failure etc.) for resource r
func Internal(r Resource, err error) *Error {
	return &Error{Resource: r, Kind: KindInternal, Key: string(r) + ".internal", Err: err}
}

// Validation wraps a request binding error
func Validation(err error) *Error {
	return &Error{Resource: ResourceCommon, Kind: KindBadRequest, Key: "common.validation", Err: err}
}

// AsError extracts a *Error from err; unknown errors become C500
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Resource: ResourceCommon, Kind: KindInternal, Key: "common.internal", Err: err}
}

// Business logic errors
var (
	// Auth
	ErrUnauthorized = &Error{Resource: ResourceAuth, Kind: KindUnauthorized, Key: "auth.unauthorized"}
	ErrTokenExpired = &Error{Resource: ResourceAuth, Kind: KindUnauthorized, Key: "auth.token_expired"}
	ErrTokenInvalid = &Error{Resource: ResourceAuth, Kind: KindUnauthorized, Key: "auth.token_invalid"}

	ErrBadRequest      = BadRequest(ResourceCommon, "common.bad_request")
	ErrTooManyRequests = &Error{Resource: ResourceCommon, Kind: KindTooManyRequests, Key: "common.too_many_requests"}

	// User
	ErrUserNotFound       = NotFound(ResourceUser, "user.not_found")
	ErrStorageDisabled    = BadRequest(ResourceUser, "user.storage_disabled")
	ErrInvalidProfileFile = BadRequest(ResourceUser, "user.invalid_image")

	// Room
	ErrRoomNotFound       = NotFound(ResourceRoom, "room.not_found")
	ErrRoomNotMember      = BadRequest(ResourceRoom, "room.not_member")
	ErrRoomNotOwner       = BadRequest(ResourceRoom, "room.not_owner")
	ErrPrivateRoom        = BadRequest(ResourceRoom, "room.private_room")
	ErrRoomOwnerNotMember = BadRequest(ResourceRoom, "room.owner_not_member")

	// Memory
	ErrMemoryNotFound     = NotFound(ResourceMemory, "memory.not_found")
	ErrMemoryPeriod       = BadRequest(ResourceMemory, "memory.invalid_period")
	ErrMemoryNotWriter    = BadRequest(ResourceMemory, "memory.not_writer")
	ErrMemoryNoPermission = BadRequest(ResourceMemory, "memory.no_permission")
	ErrMemoryInvalidShare = BadRequest(ResourceMemory, "memory.invalid_share")

	// Friend
	ErrFriendSelf             = BadRequest(ResourceFriend, "friend.self")
	ErrFriendAlready          = BadRequest(ResourceFriend, "friend.already_friend")
	ErrFriendBlocked          = BadRequest(ResourceFriend, "friend.blocked")
	ErrFriendAlreadyRequested = BadRequest(ResourceFriend, "friend.already_requested")
	ErrFriendRequestNotFound  = NotFound(ResourceFriend, "friend.request_not_found")
	ErrFriendNotFound         = NotFound(ResourceFriend, "friend.not_found")
	ErrFriendNotFriend        = BadRequest(ResourceFriend, "friend.not_friend")
	ErrFriendInvalidStatus    = BadRequest(ResourceFriend, "friend.invalid_status")

	// Todo
	ErrTodoNotFound  = NotFound(ResourceTodo, "todo.not_found")
	ErrTodoNotWriter = BadRequest(ResourceTodo, "todo.not_writer")

	// Notice
	ErrNoticeNotFound = NotFound(ResourceNotice, "notice.not_found")

	// Push
	ErrPushDisabled   = &Error{Resource: ResourcePush, Kind: KindInternal, Key: "push.disabled"}
	ErrPushSendFailed = &Error{Resource: ResourcePush, Kind: KindInternal, Key: "push.send_failed"}
)
