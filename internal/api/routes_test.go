package api

import (
	"bytes"
	"coursell/backend/internal/events"
	"coursell/backend/internal/ratelimit"
	"coursell/backend/internal/repository/memory"
	"coursell/backend/internal/service"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T, limiter ratelimit.Limiter) *testServer {
	t.Helper()
	return newTestServerBehind(t, limiter, nil)
}

// newTestServerBehind builds a server that honours X-Forwarded-For from the
// given proxies.
func newTestServerBehind(t *testing.T, limiter ratelimit.Limiter, trustedProxies []string) *testServer {
	t.Helper()
	db := memory.NewDB()
	users := memory.NewUserRepository(db)
	admins := memory.NewAdminRepository(db)
	courses := memory.NewCourseRepository(db)
	purchases := memory.NewPurchaseRepository(db)
	uploads := memory.NewUploadRepository(db)

	log := zap.NewNop()
	publisher := events.NewNoop()
	tokens := service.NewTokenService(service.TokenConfig{
		UserSecret:  "user-secret",
		AdminSecret: "admin-secret",
		Issuer:      "test",
	})

	router := NewRouter(Deps{
		Environment:     "test",
		AllowedOrigins:  []string{"http://localhost:5173"},
		TrustedProxies:  trustedProxies,
		Log:             log,
		Limiter:         limiter,
		Tokens:          tokens,
		AuthService:     service.NewAuthService(users, tokens, publisher, log),
		AdminService:    service.NewAdminService(admins, tokens),
		CourseService:   service.NewCourseService(courses, admins, purchases, uploads, nil, log),
		PurchaseService: service.NewPurchaseService(purchases, courses, publisher, log),
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) userToken(email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/user/signup", gin.H{
		"email": email, "password": "secret1", "firstName": "Ada", "lastName": "Lovelace",
	}, "")
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/user/signin", gin.H{"email": email, "password": "secret1"}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode(s.t, w)["token"].(string)
}

func (s *testServer) adminToken(username string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/admin/signup", gin.H{"username": username, "password": "secret1"}, "")
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/admin/signin", gin.H{"username": username, "password": "secret1"}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode(s.t, w)["token"].(string)
}

// createCourse creates a course with the given number of videos and returns its id.
func (s *testServer) createCourse(adminToken, title string, published bool, videos int) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/courses", gin.H{
		"title": title, "description": "about " + title, "price": 19.99,
		"imageLink": "https://img.test/c.png", "published": published, "content": "notes",
	}, adminToken)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(s.t, w)["id"].(string)

	for i := 0; i < videos; i++ {
		w = s.do(http.MethodPost, "/api/courses/"+id+"/videos", gin.H{
			"title": "Lesson", "videoUrl": "https://cdn.test/v.mp4", "duration": 60,
		}, adminToken)
		require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	}
	return id
}

func TestSystemRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = s.do(http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Version, decode(t, w)["version"])
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestUserSignupSigninAndPreview(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.adminToken("instructor")
	s.createCourse(adminToken, "Go Basics", true, 0)
	s.createCourse(adminToken, "Draft", false, 0)

	userToken := s.userToken("a@b.com")
	assert.NotEmpty(t, userToken)

	w := s.do(http.MethodGet, "/api/courses/preview", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Available courses", body["message"])
	courses := body["courses"].([]any)
	require.Len(t, courses, 1)
	preview := courses[0].(map[string]any)
	assert.Equal(t, "Go Basics", preview["title"])
	assert.Equal(t, "instructor", preview["creator"])

	w = s.do(http.MethodGet, "/api/user/profile", nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)
	assert.Equal(t, "a@b.com", profile["email"])
	assert.NotContains(t, profile, "password")
}

func TestDuplicateSignupConflicts(t *testing.T) {
	s := newTestServer(t, nil)
	s.userToken("dup@b.com")

	w := s.do(http.MethodPost, "/api/user/signup", gin.H{
		"email": "DUP@b.com", "password": "secret1", "firstName": "A", "lastName": "B",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	s.adminToken("root")
	w = s.do(http.MethodPost, "/api/admin/signup", gin.H{"username": "root", "password": "secret1"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSigninWrongPassword(t *testing.T) {
	s := newTestServer(t, nil)
	s.userToken("a@b.com")

	w := s.do(http.MethodPost, "/api/user/signin", gin.H{"email": "a@b.com", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodPost, "/api/user/signin", gin.H{"email": "nobody@b.com", "password": "secret1"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidationErrorsCarryFieldDetails(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/api/user/signup", gin.H{
		"email": "not-an-email", "password": "123", "firstName": "A", "lastName": "B",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Invalid input", body["error"])
	details := body["details"].(map[string]any)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")

	w = s.do(http.MethodPost, "/api/user/signup", []byte("{not json"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOversizedBodyIsRejected(t *testing.T) {
	s := newTestServer(t, nil)
	big := `{"email":"` + strings.Repeat("a", MaxBodyBytes) + `@b.com"}`

	w := s.do(http.MethodPost, "/api/user/signin", []byte(big), "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestTokensAreBoundToTheirKind(t *testing.T) {
	s := newTestServer(t, nil)
	userToken := s.userToken("u@b.com")
	adminToken := s.adminToken("admin1")

	w := s.do(http.MethodGet, "/api/admin/courses", nil, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/purchase/my-courses", nil, adminToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/admin/courses", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/user/profile", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/admin/courses", nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVideosAreGatedOnPurchase(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.adminToken("author")
	courseID := s.createCourse(adminToken, "Gated", true, 2)
	userToken := s.userToken("buyer@b.com")

	// Anonymous and not-yet-purchased callers see no videos key at all.
	for _, token := range []string{"", userToken} {
		w := s.do(http.MethodGet, "/api/courses/"+courseID, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, false, body["hasAccess"])
		course := body["course"].(map[string]any)
		assert.NotContains(t, course, "videos")
		assert.NotContains(t, course, "content")
	}

	w := s.do(http.MethodGet, "/api/courses/"+courseID+"/content", nil, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/purchase/course/"+courseID, nil, userToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["purchaseId"])

	w = s.do(http.MethodGet, "/api/courses/"+courseID, nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["hasAccess"])
	assert.Len(t, body["course"].(map[string]any)["videos"], 2)

	w = s.do(http.MethodGet, "/api/courses/"+courseID+"/content", nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "notes", decode(t, w)["content"])

	// The creating admin always sees the videos.
	w = s.do(http.MethodGet, "/api/courses/"+courseID, nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["course"].(map[string]any)["videos"], 2)
}

func TestPurchaseFlow(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.adminToken("seller")
	courseID := s.createCourse(adminToken, "Sold", true, 1)
	draftID := s.createCourse(adminToken, "Draft", false, 0)
	userToken := s.userToken("shopper@b.com")

	w := s.do(http.MethodGet, "/api/purchase/course/"+courseID+"/access", nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["hasAccess"])
	assert.Nil(t, body["purchase"])

	w = s.do(http.MethodPost, "/api/purchase/course/"+courseID, nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/purchase/course/"+courseID, nil, userToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/purchase/course/"+draftID, nil, userToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/purchase/course/not-an-id", nil, userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/purchase/course/"+courseID+"/access", nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, true, body["hasAccess"])
	assert.Equal(t, 19.99, body["purchase"].(map[string]any)["amount"])

	w = s.do(http.MethodGet, "/api/courses/"+courseID+"/purchase", nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["purchased"])

	w = s.do(http.MethodGet, "/api/purchase/my-courses", nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	purchases := decode(t, w)["purchases"].([]any)
	require.Len(t, purchases, 1)
	item := purchases[0].(map[string]any)
	assert.Equal(t, "completed", item["paymentStatus"])
	assert.Equal(t, "Sold", item["course"].(map[string]any)["title"])

	w = s.do(http.MethodGet, "/api/user/purchases", nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["courses"], 1)
}

func TestReviewsRequirePurchase(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.adminToken("reviewed")
	courseID := s.createCourse(adminToken, "Rated", true, 0)
	userToken := s.userToken("critic@b.com")

	w := s.do(http.MethodPost, "/api/courses/"+courseID+"/reviews", gin.H{"rating": 4}, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/purchase/course/"+courseID, nil, userToken).Code)

	w = s.do(http.MethodPost, "/api/courses/"+courseID+"/reviews", gin.H{"rating": 6}, userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/courses/"+courseID+"/reviews", gin.H{"rating": 4, "comment": "solid"}, userToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, 4.0, body["rating"])
	assert.Len(t, body["reviews"], 1)
}

func TestAdminCanOnlyMutateOwnCourses(t *testing.T) {
	s := newTestServer(t, nil)
	ownerToken := s.adminToken("owner")
	otherToken := s.adminToken("other")
	courseID := s.createCourse(ownerToken, "Mine", true, 1)

	w := s.do(http.MethodPut, "/api/courses/"+courseID, gin.H{"title": "Hijacked"}, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/courses/"+courseID, nil, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/admin/course/"+courseID, nil, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/admin/course/"+courseID+"/videos", gin.H{"videos": []gin.H{}}, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, "/api/courses/"+courseID, gin.H{"title": "Renamed", "price": 25}, ownerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Renamed", body["title"])
	assert.Equal(t, 25.0, body["price"])
	assert.Equal(t, "about Mine", body["description"])

	w = s.do(http.MethodDelete, "/api/courses/"+courseID, nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Course deleted successfully", decode(t, w)["message"])

	w = s.do(http.MethodGet, "/api/courses/"+courseID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletingVideoRenumbersTheRest(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.adminToken("editor")
	courseID := s.createCourse(adminToken, "Series", true, 3)

	w := s.do(http.MethodGet, "/api/admin/course/"+courseID+"/videos", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	videos := decode(t, w)["course"].(map[string]any)["videos"].([]any)
	require.Len(t, videos, 3)
	middle := videos[1].(map[string]any)["_id"].(string)
	last := videos[2].(map[string]any)["_id"].(string)

	w = s.do(http.MethodDelete, "/api/courses/"+courseID+"/videos/"+middle, nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Video deleted successfully", decode(t, w)["message"])

	w = s.do(http.MethodDelete, "/api/courses/"+courseID+"/videos/"+middle, nil, adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/admin/course/"+courseID+"/videos", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	videos = decode(t, w)["course"].(map[string]any)["videos"].([]any)
	require.Len(t, videos, 2)
	for i, v := range videos {
		assert.Equal(t, float64(i+1), v.(map[string]any)["order"])
	}
	assert.Equal(t, last, videos[1].(map[string]any)["_id"])
}

func TestReplaceVideosOrdersByRequest(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.adminToken("sorter")
	courseID := s.createCourse(adminToken, "Ordered", true, 0)

	w := s.do(http.MethodPost, "/api/admin/course/"+courseID+"/videos", gin.H{"videos": []gin.H{
		{"title": "Second", "videoUrl": "https://cdn.test/2.mp4", "order": 5},
		{"title": "First", "videoUrl": "https://cdn.test/1.mp4", "order": 2},
	}}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	videos := decode(t, w)["course"].(map[string]any)["videos"].([]any)
	require.Len(t, videos, 2)
	assert.Equal(t, "First", videos[0].(map[string]any)["title"])
	assert.Equal(t, float64(1), videos[0].(map[string]any)["order"])
	assert.Equal(t, float64(2), videos[1].(map[string]any)["order"])
}

func TestReplaceVideosNeedsAVideoList(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.adminToken("keeper")
	courseID := s.createCourse(adminToken, "Kept", true, 2)

	w := s.do(http.MethodPost, "/api/admin/course/"+courseID+"/videos", gin.H{}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/admin/course/"+courseID+"/videos", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["course"].(map[string]any)["videos"], 2)

	// An explicit empty list still clears them.
	w = s.do(http.MethodPost, "/api/admin/course/"+courseID+"/videos", gin.H{"videos": []gin.H{}}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode(t, w)["course"].(map[string]any)["videos"])
}

func TestAdminLegacyCourseRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken := s.adminToken("legacy")

	w := s.do(http.MethodPost, "/api/admin/course", gin.H{
		"title": "Legacy", "description": "d", "price": 10, "imageLink": "https://img.test/l.png",
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	courseID := decode(t, w)["courseId"].(string)

	w = s.do(http.MethodPut, "/api/admin/course", gin.H{
		"courseId": courseID, "title": "Legacy v2", "description": "d2", "price": 12, "imageLink": "https://img.test/l.png",
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Legacy v2", decode(t, w)["course"].(map[string]any)["title"])

	w = s.do(http.MethodGet, "/api/admin/courses", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["courses"], 1)

	hiddenID := s.createCourse(adminToken, "Hidden", false, 2)

	w = s.do(http.MethodGet, "/api/admin/course/bulk", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "https://cdn.test/v.mp4")
	bulk := decode(t, w)["courses"].([]any)
	require.Len(t, bulk, 2)
	for _, raw := range bulk {
		item := raw.(map[string]any)
		assert.Equal(t, "legacy", item["creator"])
		assert.NotContains(t, item, "videos")
		assert.NotContains(t, item, "content")
		if item["id"] == hiddenID {
			assert.Equal(t, false, item["published"])
		}
	}

	w = s.do(http.MethodPost, "/api/admin/course/"+courseID+"/uploads", gin.H{
		"fileName": "intro.mp4", "contentType": "video/mp4",
	}, adminToken)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimitRejectsOverflow(t *testing.T) {
	s := newTestServer(t, ratelimit.NewMemory(2, time.Minute))

	for i := 0; i < 2; i++ {
		w := s.do(http.MethodGet, "/api/courses", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("RateLimit-Limit"))
	}

	w := s.do(http.MethodGet, "/api/courses", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, ratelimit.TooManyRequestsMessage, decode(t, w)["error"])
	assert.Equal(t, "0", w.Header().Get("RateLimit-Remaining"))

	// The cap is per client address across every route.
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodGet, "/health", nil, "").Code)
}

func (s *testServer) getFrom(path, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set("X-Forwarded-For", forwardedFor)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	s := newTestServer(t, ratelimit.NewMemory(1, time.Minute))

	require.Equal(t, http.StatusOK, s.getFrom("/api/courses", "203.0.113.9:4000", "10.0.0.0").Code)
	for i := 1; i < 5; i++ {
		w := s.getFrom("/api/courses", "203.0.113.9:4000", fmt.Sprintf("10.0.0.%d", i))
		assert.Equal(t, http.StatusTooManyRequests, w.Code, "spoofed X-Forwarded-For 10.0.0.%d", i)
	}
}

func TestRateLimitHonoursForwardedForFromTrustedProxy(t *testing.T) {
	s := newTestServerBehind(t, ratelimit.NewMemory(1, time.Minute), []string{"203.0.113.9"})

	assert.Equal(t, http.StatusOK, s.getFrom("/api/courses", "203.0.113.9:4000", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, s.getFrom("/api/courses", "203.0.113.9:4000", "10.0.0.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, s.getFrom("/api/courses", "203.0.113.9:4000", "10.0.0.1").Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/courses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
