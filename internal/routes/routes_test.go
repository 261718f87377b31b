package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ourmemory/ourmemory-backend/internal/handler"
	"github.com/ourmemory/ourmemory-backend/internal/middleware"
	"github.com/ourmemory/ourmemory-backend/internal/migration"
	"github.com/ourmemory/ourmemory-backend/internal/repository"
	"github.com/ourmemory/ourmemory-backend/internal/service"
	"github.com/ourmemory/ourmemory-backend/pkg/cache"
	"github.com/ourmemory/ourmemory-backend/pkg/jwt"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	ResultCode    string          `json:"result_code"`
	ResultMessage string          `json:"result_message"`
	Response      json.RawMessage `json:"response"`
}

// APISuite drives the full router against an in-memory database
type APISuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(middleware.RegisterValidators())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(migration.AutoMigrate(db))
	s.db = db

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)

	jwtManager := jwt.NewManager("test-secret", 900, 86400)
	fcmService := service.NewFcmService(nil, userRepo)
	noticeService := service.NewNoticeService(noticeRepo, nil)

	h := &Handlers{
		User: handler.NewUserHandler(service.NewUserService(db, userRepo, roomRepo, friendRepo, jwtManager, cache.NewService(nil), nil)),
		Room: handler.NewRoomHandler(service.NewRoomService(db, roomRepo, userRepo, noticeService, fcmService)),
		Memory: handler.NewMemoryHandler(service.NewMemoryService(
			db, memoryRepo, roomRepo, userRepo, nil, noticeService, fcmService)),
		Friend: handler.NewFriendHandler(service.NewFriendService(friendRepo, userRepo, noticeService, fcmService)),
		Todo:   handler.NewTodoHandler(service.NewTodoService(todoRepo)),
		Notice: handler.NewNoticeHandler(noticeService),
		Fcm:    handler.NewFcmHandler(fcmService),
	}

	s.router = gin.New()
	s.router.Use(middleware.I18n())
	Setup(s.router, h, jwtManager, nil)
}

func (s *APISuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (s *APISuite) do(method, path, token string, body interface{}) envelope {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "ko")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var env envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// join signs up and signs in, returning the user id and access token
func (s *APISuite) join(name string) (uint64, string) {
	signup := s.do(http.MethodPost, "/api/v1/users/signup", "", map[string]interface{}{
		"sns_id":   "sns-" + name,
		"sns_type": "KAKAO",
		"name":     name,
	})
	s.Require().Equal("S000", signup.ResultCode, signup.ResultMessage)

	signin := s.do(http.MethodPost, "/api/v1/users/signin", "", map[string]interface{}{
		"sns_id":   "sns-" + name,
		"sns_type": "KAKAO",
	})
	s.Require().Equal("S000", signin.ResultCode, signin.ResultMessage)

	var tokens struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID uint64 `json:"id"`
		} `json:"user"`
	}
	s.Require().NoError(json.Unmarshal(signin.Response, &tokens))
	s.Require().NotEmpty(tokens.AccessToken)
	return tokens.User.ID, tokens.AccessToken
}

func (s *APISuite) TestProtectedRouteWithoutToken() {
	env := s.do(http.MethodGet, "/api/v1/users/me", "", nil)
	s.Equal("A401", env.ResultCode)
	s.NotEmpty(env.ResultMessage)
}

func (s *APISuite) TestSignUpValidation() {
	env := s.do(http.MethodPost, "/api/v1/users/signup", "", map[string]interface{}{
		"sns_id":   "sns-x",
		"sns_type": "FACEBOOK",
		"name":     "x",
	})
	s.Equal("C400", env.ResultCode)
}

func (s *APISuite) TestGetMe() {
	id, token := s.join("민수")

	env := s.do(http.MethodGet, "/api/v1/users/me", token, nil)
	s.Require().Equal("S000", env.ResultCode)

	var me struct {
		ID            uint64  `json:"id"`
		Name          string  `json:"name"`
		PrivateRoomID *uint64 `json:"private_room_id"`
	}
	s.Require().NoError(json.Unmarshal(env.Response, &me))
	s.Equal(id, me.ID)
	s.Equal("민수", me.Name)
	s.NotNil(me.PrivateRoomID)
}

func (s *APISuite) TestFriendFlow() {
	aliceID, aliceToken := s.join("지영")
	bobID, bobToken := s.join("현우")

	env := s.do(http.MethodPost, fmt.Sprintf("/api/v1/friends/%d", bobID), aliceToken, nil)
	s.Require().Equal("S000", env.ResultCode, env.ResultMessage)

	env = s.do(http.MethodPost, fmt.Sprintf("/api/v1/friends/%d", bobID), aliceToken, nil)
	s.Equal("F400", env.ResultCode)

	env = s.do(http.MethodPost, fmt.Sprintf("/api/v1/friends/%d/accept", aliceID), bobToken, nil)
	s.Require().Equal("S000", env.ResultCode, env.ResultMessage)

	env = s.do(http.MethodGet, "/api/v1/friends", aliceToken, nil)
	s.Require().Equal("S000", env.ResultCode)
	var friends []struct {
		User struct {
			ID uint64 `json:"id"`
		} `json:"user"`
		Status string `json:"status"`
	}
	s.Require().NoError(json.Unmarshal(env.Response, &friends))
	s.Require().Len(friends, 1)
	s.Equal(bobID, friends[0].User.ID)
	s.Equal("FRIEND", friends[0].Status)

	// 요청/수락 알림
	env = s.do(http.MethodGet, "/api/v1/notices", aliceToken, nil)
	s.Require().Equal("S000", env.ResultCode)
	var notices []map[string]interface{}
	s.Require().NoError(json.Unmarshal(env.Response, &notices))
	s.Len(notices, 1)
}

func (s *APISuite) TestFriendSelfRequest() {
	id, token := s.join("서연")
	env := s.do(http.MethodPost, fmt.Sprintf("/api/v1/friends/%d", id), token, nil)
	s.Equal("F400", env.ResultCode)
}

func (s *APISuite) TestRoomAndMemoryFlow() {
	_, ownerToken := s.join("도윤")
	guestID, guestToken := s.join("하은")

	env := s.do(http.MethodPost, "/api/v1/rooms", ownerToken, map[string]interface{}{
		"name":       "가족",
		"member_ids": []uint64{guestID},
	})
	s.Require().Equal("S000", env.ResultCode, env.ResultMessage)
	var room struct {
		ID uint64 `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Response, &room))

	start := time.Now().Truncate(time.Hour)
	env = s.do(http.MethodPost, "/api/v1/memories", ownerToken, map[string]interface{}{
		"name":       "저녁 약속",
		"start_date": start,
		"end_date":   start.Add(2 * time.Hour),
		"share": map[string]interface{}{
			"type":       "ROOMS",
			"target_ids": []uint64{room.ID},
		},
	})
	s.Require().Equal("S000", env.ResultCode, env.ResultMessage)
	var memory struct {
		ID uint64 `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Response, &memory))

	// 방 멤버는 조회 가능
	env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/memories/%d", memory.ID), guestToken, nil)
	s.Equal("S000", env.ResultCode, env.ResultMessage)

	// 작성자가 아니면 수정 불가
	env = s.do(http.MethodPut, fmt.Sprintf("/api/v1/memories/%d", memory.ID), guestToken, map[string]interface{}{
		"name":       "변경",
		"start_date": start,
		"end_date":   start.Add(time.Hour),
	})
	s.Equal("M400", env.ResultCode)

	env = s.do(http.MethodGet, "/api/v1/memories/999", ownerToken, nil)
	s.Equal("M404", env.ResultCode)

	env = s.do(http.MethodGet, "/api/v1/rooms/999", ownerToken, nil)
	s.Equal("R404", env.ResultCode)
}

func (s *APISuite) TestTodoFlow() {
	_, token := s.join("지호")

	today := time.Now().Format("2006-01-02")
	env := s.do(http.MethodPost, "/api/v1/todos", token, map[string]interface{}{
		"contents":  "장보기",
		"todo_date": today,
	})
	s.Require().Equal("S000", env.ResultCode, env.ResultMessage)
	var todo struct {
		ID uint64 `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Response, &todo))

	env = s.do(http.MethodPatch, fmt.Sprintf("/api/v1/todos/%d", todo.ID), token, map[string]interface{}{
		"state": true,
	})
	s.Require().Equal("S000", env.ResultCode, env.ResultMessage)

	env = s.do(http.MethodGet, "/api/v1/todos?start="+today+"&end="+today, token, nil)
	s.Require().Equal("S000", env.ResultCode, env.ResultMessage)
	var todos []struct {
		ID    uint64 `json:"id"`
		State bool   `json:"state"`
	}
	s.Require().NoError(json.Unmarshal(env.Response, &todos))
	s.Require().Len(todos, 1)
	s.True(todos[0].State)

	env = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/todos/%d", todo.ID), token, nil)
	s.Equal("S000", env.ResultCode)
	env = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/todos/%d", todo.ID), token, nil)
	s.Equal("T404", env.ResultCode)
}

func (s *APISuite) TestPushDisabled() {
	_, token := s.join("유나")
	env := s.do(http.MethodPost, "/api/v1/fcm/send", token, map[string]interface{}{
		"token": "device-token",
		"title": "t",
		"body":  "b",
	})
	s.Equal("P500", env.ResultCode)
}
