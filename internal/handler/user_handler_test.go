package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ezwallet/internal/auth"
	"ezwallet/internal/dto"
	"ezwallet/internal/service"
	"ezwallet/pkg/response"
)

// mockUserService implements service.UserService for testing
type mockUserService struct {
	users []dto.UserInfo
}

func (m *mockUserService) List(ctx context.Context) ([]dto.UserInfo, error) {
	return m.users, nil
}

func (m *mockUserService) Get(ctx context.Context, username string) (*dto.UserInfo, error) {
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, service.ErrUserNotFound
}

func (m *mockUserService) Delete(ctx context.Context, req *dto.DeleteUserRequest) (*dto.DeleteUserResult, error) {
	if req.Email == nil {
		return nil, service.ErrMissingParameters
	}
	for i, u := range m.users {
		if u.Email == *req.Email {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return &dto.DeleteUserResult{DeletedTransactions: 1, DeletedFromGroup: false}, nil
		}
	}
	return nil, service.ErrUserNotFound
}

func newSessionCodec() *auth.Codec {
	return auth.NewCodec([]byte("test-secret"), time.Hour, 7*24*time.Hour)
}

func setupUserRouter(svc service.UserService, codec *auth.Codec) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewUserHandler(svc, auth.NewVerifier(codec), codec)
	api := router.Group("/api")
	{
		api.GET("/users", handler.List)
		api.GET("/users/:username", handler.Get)
		api.DELETE("/users", handler.Delete)
	}

	return router
}

func sessionCookies(t *testing.T, codec *auth.Codec, claims auth.Claims, accessTTL time.Duration) []*http.Cookie {
	t.Helper()
	access, err := codec.Issue(claims, accessTTL)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}
	refresh, err := codec.IssueRefresh(claims)
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}
	return []*http.Cookie{
		{Name: "accessToken", Value: access},
		{Name: "refreshToken", Value: refresh},
	}
}

func doRequest(router *gin.Engine, method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserHandler_List_Admin(t *testing.T) {
	codec := newSessionCodec()
	svc := &mockUserService{users: []dto.UserInfo{
		{Username: "mario", Email: "mario@example.com", Role: "Regular"},
		{Username: "admin", Email: "admin@example.com", Role: "Admin"},
	}}
	router := setupUserRouter(svc, codec)

	cookies := sessionCookies(t, codec, auth.Claims{
		Username: "admin", Email: "admin@example.com", Role: "Admin",
	}, time.Hour)
	w := doRequest(router, "GET", "/api/users", cookies)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var body response.Body
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "" {
		t.Errorf("Expected no error, got %q", body.Error)
	}
	if body.RefreshedTokenMessage != "" {
		t.Errorf("Expected no refresh advisory, got %q", body.RefreshedTokenMessage)
	}
}

func TestUserHandler_List_NoCookies(t *testing.T) {
	codec := newSessionCodec()
	router := setupUserRouter(&mockUserService{}, codec)

	w := doRequest(router, "GET", "/api/users", nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	var body response.Body
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "Unauthorized" {
		t.Errorf("Expected error %q, got %q", "Unauthorized", body.Error)
	}
}

func TestUserHandler_List_NotAdmin(t *testing.T) {
	codec := newSessionCodec()
	router := setupUserRouter(&mockUserService{}, codec)

	cookies := sessionCookies(t, codec, auth.Claims{
		Username: "mario", Email: "mario@example.com", Role: "Regular",
	}, time.Hour)
	w := doRequest(router, "GET", "/api/users", cookies)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	var body response.Body
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "Not admin" {
		t.Errorf("Expected error %q, got %q", "Not admin", body.Error)
	}
}

func TestUserHandler_List_RenewsExpiredAccessToken(t *testing.T) {
	codec := newSessionCodec()
	svc := &mockUserService{users: []dto.UserInfo{
		{Username: "admin", Email: "admin@example.com", Role: "Admin"},
	}}
	router := setupUserRouter(svc, codec)

	cookies := sessionCookies(t, codec, auth.Claims{
		Username: "admin", Email: "admin@example.com", Role: "Admin",
	}, -time.Minute)
	w := doRequest(router, "GET", "/api/users", cookies)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var body response.Body
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.RefreshedTokenMessage != auth.RefreshAdvisory {
		t.Errorf("Expected refresh advisory in body, got %q", body.RefreshedTokenMessage)
	}

	var renewed *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "accessToken" {
			renewed = cookie
		}
	}
	if renewed == nil {
		t.Fatal("Expected a renewed accessToken cookie")
	}
	if renewed.Value == cookies[0].Value {
		t.Error("Expected the renewed access token to differ from the expired one")
	}
	if !renewed.HttpOnly || renewed.Path != "/api" {
		t.Errorf("Expected an HttpOnly cookie scoped to /api, got HttpOnly=%v Path=%q", renewed.HttpOnly, renewed.Path)
	}
	if claims, err := codec.Parse(renewed.Value); err != nil || claims.Username != "admin" {
		t.Errorf("Expected a valid token for admin, got claims=%+v err=%v", claims, err)
	}
}

func TestUserHandler_Get_OwnProfile(t *testing.T) {
	codec := newSessionCodec()
	svc := &mockUserService{users: []dto.UserInfo{
		{Username: "mario", Email: "mario@example.com", Role: "Regular"},
	}}
	router := setupUserRouter(svc, codec)

	cookies := sessionCookies(t, codec, auth.Claims{
		Username: "mario", Email: "mario@example.com", Role: "Regular",
	}, time.Hour)
	w := doRequest(router, "GET", "/api/users/mario", cookies)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "mario@example.com") {
		t.Errorf("Expected the profile in the body, got %s", w.Body.String())
	}
}

func TestUserHandler_Get_OtherProfile(t *testing.T) {
	codec := newSessionCodec()
	router := setupUserRouter(&mockUserService{}, codec)

	cookies := sessionCookies(t, codec, auth.Claims{
		Username: "mario", Email: "mario@example.com", Role: "Regular",
	}, time.Hour)
	w := doRequest(router, "GET", "/api/users/luigi", cookies)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	var body response.Body
	json.Unmarshal(w.Body.Bytes(), &body)
	want := "Requested user different from the logged one or Not admin"
	if body.Error != want {
		t.Errorf("Expected error %q, got %q", want, body.Error)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	codec := newSessionCodec()
	router := setupUserRouter(&mockUserService{}, codec)

	cookies := sessionCookies(t, codec, auth.Claims{
		Username: "admin", Email: "admin@example.com", Role: "Admin",
	}, time.Hour)
	w := doRequest(router, "GET", "/api/users/ghost", cookies)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	var body response.Body
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "User not found" {
		t.Errorf("Expected error %q, got %q", "User not found", body.Error)
	}
}

func TestUserHandler_List_MismatchedTokens(t *testing.T) {
	codec := newSessionCodec()
	router := setupUserRouter(&mockUserService{}, codec)

	access, _ := codec.IssueAccess(auth.Claims{
		Username: "mario", Email: "mario@example.com", Role: "Admin",
	})
	refresh, _ := codec.IssueRefresh(auth.Claims{
		Username: "luigi", Email: "luigi@example.com", Role: "Admin",
	})
	w := doRequest(router, "GET", "/api/users", []*http.Cookie{
		{Name: "accessToken", Value: access},
		{Name: "refreshToken", Value: refresh},
	})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	var body response.Body
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "Mismatched users" {
		t.Errorf("Expected error %q, got %q", "Mismatched users", body.Error)
	}
}
