package domain

import "time"

// SnsType 소셜 로그인 제공자
type SnsType string

const (
	SnsKakao SnsType = "KAKAO"
	SnsNaver SnsType = "NAVER"
	SnsApple SnsType = "APPLE"
)

// IsValid reports whether t is a supported provider
func (t SnsType) IsValid() bool {
	switch t {
	case SnsKakao, SnsNaver, SnsApple:
		return true
	}
	return false
}

// User represents an app user (회원)
type User struct {
	ID              uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SnsID           string     `gorm:"column:sns_id;size:100;not null;uniqueIndex:uk_users_sns" json:"-"`
	SnsType         SnsType    `gorm:"column:sns_type;size:10;not null;uniqueIndex:uk_users_sns" json:"sns_type"`
	PushToken       string     `gorm:"column:push_token;size:255" json:"-"`
	Name            string     `gorm:"column:name;size:50;not null;index" json:"name"`
	Birthday        *time.Time `gorm:"column:birthday;type:date" json:"birthday,omitempty"`
	IsSolar         bool       `gorm:"column:is_solar" json:"is_solar"`
	BirthdayOpen    bool       `gorm:"column:birthday_open" json:"birthday_open"`
	ProfileImageURL string     `gorm:"column:profile_image_url;size:500" json:"profile_image_url"`
	PushAlarm       bool       `gorm:"column:push_alarm" json:"push_alarm"`
	PrivateRoomID   *uint64    `gorm:"column:private_room_id" json:"private_room_id,omitempty"`
	Used            bool       `gorm:"column:used;not null;index" json:"-"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (User) TableName() string {
	return "users"
}

// SignUpRequest 회원가입 요청
type SignUpRequest struct {
	SnsID        string  `json:"sns_id" binding:"required,max=100"`
	SnsType      SnsType `json:"sns_type" binding:"required,sns_type"`
	PushToken    string  `json:"push_token" binding:"omitempty,max=255"`
	Name         string  `json:"name" binding:"required,max=50"`
	Birthday     string  `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	IsSolar      *bool   `json:"is_solar"`
	BirthdayOpen *bool   `json:"birthday_open"`
	PushAlarm    *bool   `json:"push_alarm"`
}

// SignUpResponse 회원가입 응답. NewUser is false when the SNS account already existed.
type SignUpResponse struct {
	User    UserResponse `json:"user"`
	NewUser bool         `json:"new_user"`
}

// SignInRequest 로그인 요청
type SignInRequest struct {
	SnsID     string  `json:"sns_id" binding:"required"`
	SnsType   SnsType `json:"sns_type" binding:"required,sns_type"`
	PushToken string  `json:"push_token" binding:"omitempty,max=255"`
}

// RefreshRequest 토큰 재발급 요청
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse 로그인/재발급 응답
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// UpdateUserRequest 프로필 수정 요청 (nil 필드는 변경하지 않음)
type UpdateUserRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=50"`
	Birthday     *string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	IsSolar      *bool   `json:"is_solar"`
	BirthdayOpen *bool   `json:"birthday_open"`
	PushAlarm    *bool   `json:"push_alarm"`
}

// PushTokenRequest FCM 토큰 갱신 요청
type PushTokenRequest struct {
	PushToken string `json:"push_token" binding:"required,max=255"`
}

// UserResponse 회원 정보 응답
type UserResponse struct {
	ID              uint64  `json:"id"`
	SnsType         SnsType `json:"sns_type"`
	Name            string  `json:"name"`
	Birthday        string  `json:"birthday,omitempty"`
	IsSolar         bool    `json:"is_solar"`
	BirthdayOpen    bool    `json:"birthday_open"`
	ProfileImageURL string  `json:"profile_image_url"`
	PushAlarm       bool    `json:"push_alarm"`
	PrivateRoomID   *uint64 `json:"private_room_id,omitempty"`
}

// UserSummary 다른 회원에게 노출되는 최소 정보
type UserSummary struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url"`
	Birthday        string `json:"birthday,omitempty"`
	IsSolar         bool   `json:"is_solar"`
}

// ToResponse converts the entity to the owner's view
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:              u.ID,
		SnsType:         u.SnsType,
		Name:            u.Name,
		Birthday:        formatDate(u.Birthday),
		IsSolar:         u.IsSolar,
		BirthdayOpen:    u.BirthdayOpen,
		ProfileImageURL: u.ProfileImageURL,
		PushAlarm:       u.PushAlarm,
		PrivateRoomID:   u.PrivateRoomID,
	}
}

// ToSummary converts the entity to the public view; birthday only when opened
func (u *User) ToSummary() UserSummary {
	s := UserSummary{
		ID:              u.ID,
		Name:            u.Name,
		ProfileImageURL: u.ProfileImageURL,
		IsSolar:         u.IsSolar,
	}
	if u.BirthdayOpen {
		s.Birthday = formatDate(u.Birthday)
	}
	return s
}

// Summary returns the public view of the profile
func (r UserResponse) Summary() UserSummary {
	s := UserSummary{
		ID:              r.ID,
		Name:            r.Name,
		ProfileImageURL: r.ProfileImageURL,
		IsSolar:         r.IsSolar,
	}
	if r.BirthdayOpen {
		s.Birthday = r.Birthday
	}
	return s
}

// DateLayout is the wire format of date-only fields
const DateLayout = "2006-01-02"

// ParseDate parses a date-only string; empty input yields nil
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
