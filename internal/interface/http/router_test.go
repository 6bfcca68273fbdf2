package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/zwinglabs/support-chat/internal/domain/chat"
	"github.com/zwinglabs/support-chat/internal/domain/faq"
	"github.com/zwinglabs/support-chat/internal/domain/user"
	"github.com/zwinglabs/support-chat/internal/infra/config"
	"github.com/zwinglabs/support-chat/internal/interface/ws"
	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

func TestRouter_CreateUserSuccess(t *testing.T) {
	users := &stubUserService{
		createFn: func(_ context.Context, req user.CreateRequest) (user.User, error) {
			require.Equal(t, "Asha", req.FullName)
			return user.User{UserNo: 1, FullName: "Asha", Username: "asha", Number: "111", Role: "customer"}, nil
		},
	}

	rec := performRequest(http.MethodPost, "/api/users/create",
		`{"fullname":"Asha","username":"asha","number":"111","role":"customer"}`,
		newRouterUnderTest(t, users, &stubChatService{}, &stubFAQService{}))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, float64(http.StatusCreated), body["status"])
	require.Equal(t, "user created", body["message"])
}

func TestRouter_CreateUserConflict(t *testing.T) {
	users := &stubUserService{
		createFn: func(context.Context, user.CreateRequest) (user.User, error) {
			return user.User{}, apperrors.Wrap("conflict", "number already exists, please login", nil)
		},
	}

	rec := performRequest(http.MethodPost, "/api/users/create",
		`{"fullname":"A","username":"a","number":"111","role":"customer"}`,
		newRouterUnderTest(t, users, &stubChatService{}, &stubFAQService{}))
	require.Equal(t, http.StatusConflict, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "conflict", errBody["error"]["code"])
}

func TestRouter_LoginNotFound(t *testing.T) {
	users := &stubUserService{
		loginFn: func(context.Context, user.LoginRequest) (user.User, error) {
			return user.User{}, apperrors.Wrap("not_found", "user not found, please signup", nil)
		},
	}

	rec := performRequest(http.MethodPost, "/api/users/login", `{"number":"222"}`,
		newRouterUnderTest(t, users, &stubChatService{}, &stubFAQService{}))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_GetRoomSuccess(t *testing.T) {
	roomID := uuid.New()
	chats := &stubChatService{
		getOrCreateFn: func(_ context.Context, a, b int64) (chat.Room, error) {
			require.Equal(t, int64(1), a)
			require.Equal(t, int64(2), b)
			return chat.Room{ID: roomID, Members: [2]int64{1, 2}}, nil
		},
	}

	rec := performRequest(http.MethodPost, "/api/chat/get-room", `{"user1":1,"user2":2}`,
		newRouterUnderTest(t, &stubUserService{}, chats, &stubFAQService{}))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec.Body.Bytes())
	data := body["data"].(map[string]any)
	require.Equal(t, roomID.String(), data["id"])
}

func TestRouter_SendMessageForbidden(t *testing.T) {
	chats := &stubChatService{
		sendFn: func(context.Context, chat.SendMessageRequest) (chat.Message, error) {
			return chat.Message{}, apperrors.Wrap("forbidden", "sender is not a member of the room", nil)
		},
	}

	rec := performRequest(http.MethodPost, "/api/chat/send-message",
		`{"roomId":"`+uuid.NewString()+`","sender":9,"content":"hi"}`,
		newRouterUnderTest(t, &stubUserService{}, chats, &stubFAQService{}))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_FetchMessagesRequiresRoomID(t *testing.T) {
	rec := performRequest(http.MethodGet, "/api/chat/fetch-messages", "",
		newRouterUnderTest(t, &stubUserService{}, &stubChatService{}, &stubFAQService{}))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_input", errBody["error"]["code"])
}

func TestRouter_AIChatMatched(t *testing.T) {
	faqs := &stubFAQService{
		queryFn: func(_ context.Context, query string) (faq.MatchResult, error) {
			require.Equal(t, "what is zwing", query)
			matched := faq.Record{Question: "What is Zwing?", Answer: "An inventory system."}
			return faq.MatchResult{Matched: &matched, Answer: matched.Answer, Score: 0.91, Related: []string{"How to login?"}}, nil
		},
	}

	rec := performRequest(http.MethodPost, "/api/ai/chat", `{"query":"what is zwing"}`,
		newRouterUnderTest(t, &stubUserService{}, &stubChatService{}, faqs))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, "Success", body["message"])
	data := body["data"].(map[string]any)
	require.Equal(t, "An inventory system.", data["response"])
	require.Len(t, data["related_questions"], 1)
}

func TestRouter_AIChatFallback(t *testing.T) {
	faqs := &stubFAQService{
		queryFn: func(context.Context, string) (faq.MatchResult, error) {
			return faq.MatchResult{Related: []string{"A", "B"}}, nil
		},
	}

	rec := performRequest(http.MethodPost, "/api/ai/chat", `{"query":"unrelated"}`,
		newRouterUnderTest(t, &stubUserService{}, &stubChatService{}, faqs))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, "No relevant FAQ found!", body["message"])
	data := body["data"].(map[string]any)
	require.Equal(t, "Shall I connect you to an Admin?", data["response"])
}

func TestRouter_AIChatInvalidQuery(t *testing.T) {
	faqs := &stubFAQService{
		queryFn: func(context.Context, string) (faq.MatchResult, error) {
			return faq.MatchResult{}, apperrors.Wrap("invalid_input", "query cannot be empty", nil)
		},
	}

	rec := performRequest(http.MethodPost, "/api/ai/chat", `{"query":""}`,
		newRouterUnderTest(t, &stubUserService{}, &stubChatService{}, faqs))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_UploadPDFRequiresFile(t *testing.T) {
	rec := performRequest(http.MethodPost, "/api/ai/upload-pdf", "",
		newRouterUnderTest(t, &stubUserService{}, &stubChatService{}, &stubFAQService{}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_TrendingSuccess(t *testing.T) {
	faqs := &stubFAQService{
		trendingFn: func(_ context.Context, limit int) ([]faq.TrendingQuery, error) {
			require.Equal(t, 5, limit)
			return []faq.TrendingQuery{{Query: "What is Zwing?", Count: 7}}, nil
		},
	}

	rec := performRequest(http.MethodGet, "/api/ai/trending?limit=5", "",
		newRouterUnderTest(t, &stubUserService{}, &stubChatService{}, faqs))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec.Body.Bytes())
	require.Len(t, body["data"], 1)
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, users user.Service, chats chat.Service, faqs faq.Service) *http.Server {
	t.Helper()
	logger := newTestLogger()
	faqCfg := faq.Config{FallbackMessage: "Shall I connect you to an Admin?"}
	handler := NewHandler(users, chats, faqs, faqCfg, logger)
	wsHandler := ws.NewHandler(ws.NewHub(logger), chats, []string{"*"}, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, wsHandler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubUserService struct {
	createFn func(ctx context.Context, req user.CreateRequest) (user.User, error)
	loginFn  func(ctx context.Context, req user.LoginRequest) (user.User, error)
	listFn   func(ctx context.Context) ([]user.User, error)
}

func (s *stubUserService) Create(ctx context.Context, req user.CreateRequest) (user.User, error) {
	if s.createFn != nil {
		return s.createFn(ctx, req)
	}
	return user.User{}, nil
}

func (s *stubUserService) Login(ctx context.Context, req user.LoginRequest) (user.User, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return user.User{}, nil
}

func (s *stubUserService) List(ctx context.Context) ([]user.User, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *stubUserService) Exists(context.Context, int64) (bool, error) {
	return true, nil
}

type stubChatService struct {
	getOrCreateFn func(ctx context.Context, a, b int64) (chat.Room, error)
	sendFn        func(ctx context.Context, req chat.SendMessageRequest) (chat.Message, error)
	messagesFn    func(ctx context.Context, roomID uuid.UUID) ([]chat.Message, error)
	lastFn        func(ctx context.Context, roomID uuid.UUID) (chat.Message, bool, error)
}

func (s *stubChatService) GetOrCreateRoom(ctx context.Context, a, b int64) (chat.Room, error) {
	if s.getOrCreateFn != nil {
		return s.getOrCreateFn(ctx, a, b)
	}
	return chat.Room{}, nil
}

func (s *stubChatService) SendMessage(ctx context.Context, req chat.SendMessageRequest) (chat.Message, error) {
	if s.sendFn != nil {
		return s.sendFn(ctx, req)
	}
	return chat.Message{}, nil
}

func (s *stubChatService) Messages(ctx context.Context, roomID uuid.UUID) ([]chat.Message, error) {
	if s.messagesFn != nil {
		return s.messagesFn(ctx, roomID)
	}
	return nil, nil
}

func (s *stubChatService) LastMessage(ctx context.Context, roomID uuid.UUID) (chat.Message, bool, error) {
	if s.lastFn != nil {
		return s.lastFn(ctx, roomID)
	}
	return chat.Message{}, false, nil
}

type stubFAQService struct {
	ingestFn   func(ctx context.Context, docs []faq.Document) (faq.IngestResult, error)
	queryFn    func(ctx context.Context, query string) (faq.MatchResult, error)
	listFn     func(ctx context.Context) ([]faq.Record, error)
	trendingFn func(ctx context.Context, limit int) ([]faq.TrendingQuery, error)
}

func (s *stubFAQService) Ingest(ctx context.Context, docs []faq.Document) (faq.IngestResult, error) {
	if s.ingestFn != nil {
		return s.ingestFn(ctx, docs)
	}
	return faq.IngestResult{}, nil
}

func (s *stubFAQService) Query(ctx context.Context, query string) (faq.MatchResult, error) {
	if s.queryFn != nil {
		return s.queryFn(ctx, query)
	}
	return faq.MatchResult{}, nil
}

func (s *stubFAQService) ListAll(ctx context.Context) ([]faq.Record, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *stubFAQService) Trending(ctx context.Context, limit int) ([]faq.TrendingQuery, error) {
	if s.trendingFn != nil {
		return s.trendingFn(ctx, limit)
	}
	return nil, nil
}

func decodeEnvelope(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
