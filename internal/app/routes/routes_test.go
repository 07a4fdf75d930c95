package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/toma828/HinaBaby/internal/app/auth"
	"github.com/toma828/HinaBaby/internal/app/controllers"
	"github.com/toma828/HinaBaby/internal/app/models/dto"
	"github.com/toma828/HinaBaby/internal/app/repositories/repotest"
	"github.com/toma828/HinaBaby/internal/app/services"
	"github.com/toma828/HinaBaby/internal/middleware"
	"github.com/toma828/HinaBaby/internal/pkg/auth"
	"github.com/toma828/HinaBaby/internal/pkg/filestorage"
)

// newTestServer assembles the full HTTP surface over in-memory
// repositories and temp-dir file storage.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repotest.NewMemoryUserRepository()
	feedbacks := repotest.NewMemoryFeedbackRepository(users)
	videos := repotest.NewMemoryVideoRepository(users, feedbacks)
	timestamps := repotest.NewMemoryTimeStampRepository()

	storage, err := filestorage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: 30 * time.Minute,
		TokenIssuer:    "test",
	})
	authzService := appAuth.NewAuthorizationService()
	lgr := zerolog.Nop()

	authService := services.NewAuthService(users, jwtService, lgr)
	videoService := services.NewVideoService(videos, users, feedbacks, timestamps, storage, authzService, 1<<20, lgr)
	reviewService := services.NewReviewService(videos, feedbacks, timestamps, authzService, lgr)

	router := gin.New()
	SetupRouter(router,
		controllers.NewAuthController(authService, lgr),
		controllers.NewVideoController(videoService, reviewService, lgr),
		middleware.NewAuthMiddleware(jwtService, users),
	)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshaling payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v; body: %s", err, rec.Body.String())
	}
	// An empty list payload is omitted from the envelope entirely.
	if len(envelope.Data) == 0 {
		return
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decoding data: %v; body: %s", err, rec.Body.String())
	}
}

func register(t *testing.T, router *gin.Engine, username string, isTeacher bool) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/register", "", dto.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password123",
		IsTeacher: isTeacher,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d; body: %s", username, rec.Code, rec.Body.String())
	}
}

func login(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/token", "", dto.TokenRequest{
		Username: username,
		Password: "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d; body: %s", username, rec.Code, rec.Body.String())
	}
	var token dto.TokenResponse
	decodeData(t, rec, &token)
	if token.AccessToken == "" {
		t.Fatal("empty access token")
	}
	return token.AccessToken
}

func uploadVideo(t *testing.T, router *gin.Engine, token, title string) dto.UploadVideoResponse {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":         title,
		"description":   "practice session",
		"baby_age":      "3 months",
		"practice_type": "legs",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("writing field %s: %v", name, err)
		}
	}

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", `form-data; name="video_file"; filename="practice.mp4"`)
	partHeader.Set("Content-Type", "video/mp4")
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write([]byte("fake video bytes")); err != nil {
		t.Fatalf("writing file part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/videos", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var resp dto.UploadVideoResponse
	decodeData(t, rec, &resp)
	return resp
}

func TestHealth(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRegisterValidationAndConflicts(t *testing.T) {
	router := newTestServer(t)
	register(t, router, "alice", false)

	tests := []struct {
		name string
		req  dto.RegisterRequest
		want int
	}{
		{"duplicate username", dto.RegisterRequest{Username: "alice", Email: "new@example.com", Password: "password123"}, http.StatusConflict},
		{"duplicate email", dto.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "password123"}, http.StatusConflict},
		{"short username", dto.RegisterRequest{Username: "ab", Email: "ab@example.com", Password: "password123"}, http.StatusBadRequest},
		{"bad email", dto.RegisterRequest{Username: "carol", Email: "not-an-email", Password: "password123"}, http.StatusBadRequest},
		{"short password", dto.RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "short"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/register", "", tt.req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestMe(t *testing.T) {
	router := newTestServer(t)
	register(t, router, "alice", false)
	token := login(t, router, "alice")

	rec := doJSON(t, router, http.MethodGet, "/api/users/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var me dto.UserResponse
	decodeData(t, rec, &me)
	if me.Username != "alice" || me.IsTeacher {
		t.Errorf("unexpected profile: %+v", me)
	}

	// Without a token the profile is unreachable.
	rec = doJSON(t, router, http.MethodGet, "/api/users/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestReviewFlow(t *testing.T) {
	router := newTestServer(t)
	register(t, router, "alice", false)
	register(t, router, "bob", true)
	aliceToken := login(t, router, "alice")
	bobToken := login(t, router, "bob")

	uploaded := uploadVideo(t, router, aliceToken, "Leg massage")

	// Teacher annotates the upload.
	feedbackPath := fmt.Sprintf("/api/videos/%d/feedback", uploaded.ID)
	rec := doJSON(t, router, http.MethodPost, feedbackPath, bobToken, dto.FeedbackRequest{Content: "Good rhythm"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("feedback: status = %d; body: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/videos/%d/timestamps", uploaded.ID), bobToken,
		dto.TimeStampRequest{Time: "00:42", Comment: "slow down here"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("timestamp: status = %d; body: %s", rec.Code, rec.Body.String())
	}

	// Second feedback replaces the first.
	rec = doJSON(t, router, http.MethodPost, feedbackPath, bobToken, dto.FeedbackRequest{Content: "Revised notes"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("feedback update: status = %d; body: %s", rec.Code, rec.Body.String())
	}

	// The student sees the annotations on their video.
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/videos/%d", uploaded.ID), aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail: status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var detail dto.VideoDetailResponse
	decodeData(t, rec, &detail)
	if detail.Feedback == nil {
		t.Fatal("feedback missing from detail")
	}
	if detail.Feedback.Content != "Revised notes" {
		t.Errorf("feedback content = %q, want %q", detail.Feedback.Content, "Revised notes")
	}
	if detail.Feedback.TeacherName != "bob" {
		t.Errorf("teacherName = %q, want %q", detail.Feedback.TeacherName, "bob")
	}
	if len(detail.Timestamps) != 1 || detail.Timestamps[0].Time != "00:42" {
		t.Errorf("unexpected timestamps: %+v", detail.Timestamps)
	}
}

func TestRoleEnforcement(t *testing.T) {
	router := newTestServer(t)
	register(t, router, "alice", false)
	register(t, router, "carol", false)
	register(t, router, "bob", true)
	aliceToken := login(t, router, "alice")
	carolToken := login(t, router, "carol")
	bobToken := login(t, router, "bob")

	uploaded := uploadVideo(t, router, aliceToken, "Leg massage")

	// Students cannot annotate, not even their own video.
	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/videos/%d/feedback", uploaded.ID), aliceToken,
		dto.FeedbackRequest{Content: "self-review"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("student feedback: status = %d, want 403", rec.Code)
	}

	// Another student cannot see the video detail.
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/videos/%d", uploaded.ID), carolToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-student detail: status = %d, want 403", rec.Code)
	}

	// The listing is role-filtered.
	rec = doJSON(t, router, http.MethodGet, "/api/videos", carolToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var carolView []dto.VideoSummaryResponse
	decodeData(t, rec, &carolView)
	if len(carolView) != 0 {
		t.Errorf("carol sees %d videos, want 0", len(carolView))
	}

	rec = doJSON(t, router, http.MethodGet, "/api/videos", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var bobView []dto.VideoSummaryResponse
	decodeData(t, rec, &bobView)
	if len(bobView) != 1 {
		t.Fatalf("teacher sees %d videos, want 1", len(bobView))
	}
	if bobView[0].HasFeedback {
		t.Error("hasFeedback should be false before any review")
	}
	if bobView[0].OwnerName != "alice" {
		t.Errorf("ownerName = %q, want %q", bobView[0].OwnerName, "alice")
	}

	// Teachers cannot upload.
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("title", "t")
	_ = writer.WriteField("description", "d")
	_ = writer.WriteField("baby_age", "a")
	_ = writer.WriteField("practice_type", "p")
	_ = writer.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/videos", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bobToken)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Errorf("teacher upload: status = %d, want 403", recorder.Code)
	}
}

func TestVideoNotFound(t *testing.T) {
	router := newTestServer(t)
	register(t, router, "bob", true)
	bobToken := login(t, router, "bob")

	rec := doJSON(t, router, http.MethodGet, "/api/videos/9999", bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("detail: status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/videos/9999/feedback", bobToken, dto.FeedbackRequest{Content: "ghost"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("feedback: status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/videos/not-a-number", bobToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
