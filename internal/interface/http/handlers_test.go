package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskhive/taskhive/internal/application"
	"github.com/taskhive/taskhive/internal/infrastructure/memory"
	handlers "github.com/taskhive/taskhive/internal/interface/http"
	"github.com/taskhive/taskhive/internal/router/modules"
	"github.com/taskhive/taskhive/pkg/helpers"
	"github.com/taskhive/taskhive/pkg/validation"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jwt, err := helpers.NewJWTManager("test-secret", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	authSvc := application.NewAuthService(memory.NewUserRepository(), jwt, nil, 0, logger)
	taskSvc := application.NewTaskService(memory.NewTaskRepository(), nil, nil, "", logger)

	r := gin.New()
	rg := r.Group("/")
	modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), jwt, authSvc).Register(rg)
	modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, logger), jwt, authSvc).Register(rg)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func register(t *testing.T, r *gin.Engine, username, email, password string) {
	t.Helper()
	w := do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": username, "email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"username": username, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}
	body := decode(t, w)
	token, _ := body["access_token"].(string)
	if token == "" {
		t.Fatal("expected access_token in login response")
	}
	if body["token_type"] != "bearer" {
		t.Fatalf("expected token_type bearer, got %v", body["token_type"])
	}
	return token
}

func TestRegister(t *testing.T) {
	r := newTestServer(t)

	w := do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice", "email": "a@x.com", "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["username"] != "alice" || body["email"] != "a@x.com" || body["is_active"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["id"]; !ok {
		t.Fatal("expected id in response")
	}
	for _, key := range []string{"password", "password_hash", "hashed_password"} {
		if _, ok := body[key]; ok {
			t.Fatalf("response must not contain %q", key)
		}
	}
}

func TestRegisterShortPassword(t *testing.T) {
	r := newTestServer(t)

	// no length rule on passwords; only presence is required
	w := do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice", "email": "a@x.com", "password": "pw1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["username"] != "alice" {
		t.Fatalf("unexpected body: %v", body)
	}
	if token := login(t, r, "alice", "pw1"); token == "" {
		t.Fatal("expected a usable token")
	}

	w = do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "bob", "email": "b@x.com", "password": "",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty password, got %d", w.Code)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "alice", "a@x.com", "password123")

	w := do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "alice", "email": "a@x.com", "password": "password123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
	if body := decode(t, w); body["detail"] != "Username already exists" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}

	w = do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "bob", "email": "a@x.com", "password": "password123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d", w.Code)
	}
	if body := decode(t, w); body["detail"] != "Email already registered" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
}

func TestLoginFailures(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "alice", "a@x.com", "password123")

	w := do(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"username": "nobody", "password": "password123",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d", w.Code)
	}
	if body := decode(t, w); body["detail"] != "Username not found" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}

	w = do(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice", "password": "wrongpassword",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", w.Code)
	}
	if body := decode(t, w); body["detail"] != "Incorrect password" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
}

func TestMe(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "alice", "a@x.com", "password123")
	token := login(t, r, "alice", "password123")

	w := do(t, r, http.MethodGet, "/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["username"] != "alice" || body["is_active"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestTasksRequireAuth(t *testing.T) {
	r := newTestServer(t)

	w := do(t, r, http.MethodGet, "/tasks/", "", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without header, got %d", w.Code)
	}
	if body := decode(t, w); body["detail"] != "Not authenticated" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}

	w = do(t, r, http.MethodGet, "/tasks/", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", w.Code)
	}
	if body := decode(t, w); body["detail"] != "Could not validate credentials" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
}

func TestTokenForeignSecretRejected(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "alice", "a@x.com", "password123")

	foreign, err := helpers.NewJWTManager("another-secret", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	forged, err := foreign.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := do(t, r, http.MethodGet, "/tasks/", forged, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a forged token, got %d", w.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "alice", "a@x.com", "password123")
	token := login(t, r, "alice", "password123")

	// create with default status
	w := do(t, r, http.MethodPost, "/tasks/", token, gin.H{
		"title": "A", "description": "B",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	if created["status"] != "To do" {
		t.Fatalf("expected status 'To do', got %v", created["status"])
	}
	id := int64(created["id"].(float64))
	beforeUpdate, err := time.Parse(time.RFC3339Nano, created["updated_at"].(string))
	if err != nil {
		t.Fatalf("parse updated_at: %v", err)
	}

	// partial update: only the title changes
	w = do(t, r, http.MethodPut, taskPath(id), token, gin.H{"title": "C"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", w.Code, w.Body.String())
	}
	updated := decode(t, w)
	if updated["title"] != "C" || updated["description"] != "B" || updated["status"] != "To do" {
		t.Fatalf("unexpected patched task: %v", updated)
	}
	afterUpdate, err := time.Parse(time.RFC3339Nano, updated["updated_at"].(string))
	if err != nil {
		t.Fatalf("parse updated_at: %v", err)
	}
	if !afterUpdate.After(beforeUpdate) {
		t.Fatal("expected updated_at to be strictly greater after update")
	}

	// status transition via update
	w = do(t, r, http.MethodPut, taskPath(id), token, gin.H{"status": "Doing"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["status"] != "Doing" {
		t.Fatalf("expected status Doing, got %v", body["status"])
	}

	// delete, then the id is gone
	w = do(t, r, http.MethodDelete, taskPath(id), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d body %s", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["detail"] != "Task deleted successfully" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
	w = do(t, r, http.MethodGet, taskPath(id), token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	if body := decode(t, w); body["detail"] != "Task not found" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
}

func TestTaskValidation(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "alice", "a@x.com", "password123")
	token := login(t, r, "alice", "password123")

	// title is required
	w := do(t, r, http.MethodPost, "/tasks/", token, gin.H{"description": "B"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", w.Code)
	}

	// status outside the enum
	w = do(t, r, http.MethodPost, "/tasks/", token, gin.H{"title": "A", "status": "Later"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestOwnerIsolation(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "user1", "user1@example.com", "password123")
	register(t, r, "user2", "user2@example.com", "password456")
	token1 := login(t, r, "user1", "password123")
	token2 := login(t, r, "user2", "password456")

	w := do(t, r, http.MethodPost, "/tasks/", token1, gin.H{"title": "Task by User 1"})
	if w.Code != http.StatusOK {
		t.Fatalf("create: status %d", w.Code)
	}
	task1ID := int64(decode(t, w)["id"].(float64))

	// a fresh user sees an empty list
	w = do(t, r, http.MethodGet, "/tasks/", token2, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d", w.Code)
	}
	if tasks := decodeList(t, w); len(tasks) != 0 {
		t.Fatalf("expected empty list for user2, got %d tasks", len(tasks))
	}

	// user2 cannot see, update, or delete user1's task
	w = do(t, r, http.MethodGet, taskPath(task1ID), token2, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-owner get, got %d", w.Code)
	}
	w = do(t, r, http.MethodPut, taskPath(task1ID), token2, gin.H{"title": "hijacked"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-owner update, got %d", w.Code)
	}
	w = do(t, r, http.MethodDelete, taskPath(task1ID), token2, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-owner delete, got %d", w.Code)
	}

	// user1 still sees exactly their own task
	w = do(t, r, http.MethodGet, "/tasks/", token1, nil)
	tasks := decodeList(t, w)
	if len(tasks) != 1 || tasks[0]["title"] != "Task by User 1" {
		t.Fatalf("unexpected tasks for user1: %v", tasks)
	}
}

func TestSearchWithoutIndexReturnsEmptyList(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "alice", "a@x.com", "password123")
	token := login(t, r, "alice", "password123")

	w := do(t, r, http.MethodGet, "/tasks/search?q=anything", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if hits := decodeList(t, w); len(hits) != 0 {
		t.Fatalf("expected no hits, got %d", len(hits))
	}
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}
