package i18n

// DefaultMessages returns built-in translations for all supported locales.
// These can be overridden by loading JSON files from a directory.
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleKo: koMessages,
		LocaleEn: enMessages,
	}
}

var koMessages = map[string]string{
	// Common
	"common.success":           "성공",
	"common.bad_request":       "잘못된 요청입니다",
	"common.validation":        "입력값이 올바르지 않습니다",
	"common.internal":          "서버 내부 오류가 발생했습니다",
	"common.too_many_requests": "요청이 너무 많습니다. 잠시 후 다시 시도해주세요",

	// Auth
	"auth.unauthorized":  "로그인이 필요합니다",
	"auth.token_expired": "인증 토큰이 만료되었습니다. 다시 로그인해주세요",
	"auth.token_invalid": "유효하지 않은 인증 토큰입니다",

	// User
	"user.not_found":        "사용자를 찾을 수 없습니다",
	"user.storage_disabled": "프로필 이미지 저장소가 설정되지 않았습니다",
	"user.invalid_image":    "이미지 파일만 업로드할 수 있습니다",
	"user.internal":         "사용자 처리 중 오류가 발생했습니다",

	// Room
	"room.not_found":        "방을 찾을 수 없습니다",
	"room.not_member":       "방의 구성원이 아닙니다",
	"room.not_owner":        "방장만 할 수 있는 작업입니다",
	"room.private_room":     "개인 방은 삭제하거나 나갈 수 없습니다",
	"room.owner_not_member": "방장은 방의 구성원 중에서만 지정할 수 있습니다",
	"room.internal":         "방 처리 중 오류가 발생했습니다",

	// Memory
	"memory.not_found":      "일정을 찾을 수 없습니다",
	"memory.invalid_period": "종료일은 시작일보다 빠를 수 없습니다",
	"memory.not_writer":     "작성자만 수정하거나 삭제할 수 있습니다",
	"memory.no_permission":  "일정에 접근할 권한이 없습니다",
	"memory.invalid_share":  "공유 대상이 올바르지 않습니다",
	"memory.internal":       "일정 처리 중 오류가 발생했습니다",

	// Friend
	"friend.self":              "자기 자신에게 친구 요청을 할 수 없습니다",
	"friend.already_friend":    "이미 친구입니다",
	"friend.blocked":           "차단된 사용자입니다",
	"friend.already_requested": "이미 친구 요청을 보냈습니다",
	"friend.request_not_found": "친구 요청을 찾을 수 없습니다",
	"friend.not_found":         "친구 관계를 찾을 수 없습니다",
	"friend.not_friend":        "상대방과 친구 관계가 아닙니다",
	"friend.invalid_status":    "올바르지 않은 친구 상태입니다",
	"friend.internal":          "친구 처리 중 오류가 발생했습니다",

	// Todo
	"todo.not_found":  "할 일을 찾을 수 없습니다",
	"todo.not_writer": "작성자만 수정하거나 삭제할 수 있습니다",
	"todo.internal":   "할 일 처리 중 오류가 발생했습니다",

	// Notice
	"notice.not_found": "알림을 찾을 수 없습니다",
	"notice.internal":  "알림 처리 중 오류가 발생했습니다",

	// Push
	"push.disabled":    "푸시 알림이 설정되지 않았습니다",
	"push.send_failed": "푸시 알림 전송에 실패했습니다",

	// Push texts
	"push.title":               "우리의 기억",
	"push.friend_request.body": "%s님이 친구 요청을 보냈습니다",
	"push.friend_accept.body":  "%s님이 친구 요청을 수락했습니다",
	"push.room_invite.body":    "%s님이 %s 방에 초대했습니다",
	"push.memory_share.body":   "%s님이 일정 '%s'을(를) 공유했습니다",
	"room.private_name":        "%s의 방",
}

var enMessages = map[string]string{
	// Common
	"common.success":           "Success",
	"common.bad_request":       "Invalid request",
	"common.validation":        "Invalid input",
	"common.internal":          "An internal server error occurred",
	"common.too_many_requests": "Too many requests. Please try again later",

	// Auth
	"auth.unauthorized":  "Authentication is required",
	"auth.token_expired": "Authentication token has expired. Please sign in again",
	"auth.token_invalid": "Invalid authentication token",

	// User
	"user.not_found":        "User not found",
	"user.storage_disabled": "Profile image storage is not configured",
	"user.invalid_image":    "Only image files can be uploaded",
	"user.internal":         "Failed to process user",

	// Room
	"room.not_found":        "Room not found",
	"room.not_member":       "You are not a member of this room",
	"room.not_owner":        "Only the room owner can do this",
	"room.private_room":     "A private room cannot be deleted or left",
	"room.owner_not_member": "The new owner must be a member of the room",
	"room.internal":         "Failed to process room",

	// Memory
	"memory.not_found":      "Memory not found",
	"memory.invalid_period": "End date must not be before start date",
	"memory.not_writer":     "Only the writer can edit or delete this memory",
	"memory.no_permission":  "You do not have access to this memory",
	"memory.invalid_share":  "Invalid share target",
	"memory.internal":       "Failed to process memory",

	// Friend
	"friend.self":              "You cannot send a friend request to yourself",
	"friend.already_friend":    "You are already friends",
	"friend.blocked":           "This user is blocked",
	"friend.already_requested": "Friend request already sent",
	"friend.request_not_found": "Friend request not found",
	"friend.not_found":         "Friend relationship not found",
	"friend.not_friend":        "This user is not your friend",
	"friend.invalid_status":    "Invalid friend status",
	"friend.internal":          "Failed to process friend",

	// Todo
	"todo.not_found":  "Todo not found",
	"todo.not_writer": "Only the writer can edit or delete this todo",
	"todo.internal":   "Failed to process todo",

	// Notice
	"notice.not_found": "Notice not found",
	"notice.internal":  "Failed to process notice",

	// Push
	"push.disabled":    "Push notifications are not configured",
	"push.send_failed": "Failed to send push notification",

	// Push texts
	"push.title":               "OurMemory",
	"push.friend_request.body": "%s sent you a friend request",
	"push.friend_accept.body":  "%s accepted your friend request",
	"push.room_invite.body":    "%s invited you to %s",
	"push.memory_share.body":   "%s shared the memory '%s'",
	"room.private_name":        "%s's room",
}
