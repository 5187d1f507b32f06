package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VitMok/bank-backend/internal/auth"
	"github.com/VitMok/bank-backend/internal/domain"
	"github.com/VitMok/bank-backend/internal/handler"
	"github.com/VitMok/bank-backend/internal/logging"
	"github.com/VitMok/bank-backend/internal/repository"
)

const testSecret = "middleware-test-secret"

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestAuth(t *testing.T) {
	user := &domain.User{ID: 17, Username: "ivan", IsStaff: true}
	token, err := auth.GenerateToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{name: "missing header", header: "", wantCode: "MISSING_TOKEN"},
		{name: "wrong scheme", header: "Basic " + token, wantCode: "INVALID_TOKEN"},
		{name: "bad token", header: "Bearer not-a-jwt", wantCode: "INVALID_TOKEN"},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Auth(testSecret)(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec))
		})
	}

	t.Run("valid token sets actor", func(t *testing.T) {
		var got domain.Actor
		h := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = auth.ActorFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.Actor{UserID: 17, IsStaff: true}, got)
	})
}

func TestRequireStaff(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		actor      *domain.Actor
		wantStatus int
	}{
		{name: "no actor", actor: nil, wantStatus: http.StatusUnauthorized},
		{name: "regular user", actor: &domain.Actor{UserID: 1}, wantStatus: http.StatusForbidden},
		{name: "staff", actor: &domain.Actor{UserID: 2, IsStaff: true}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/accounts", nil)
			if tt.actor != nil {
				req = req.WithContext(auth.ContextWithActor(req.Context(), *tt.actor))
			}
			rec := httptest.NewRecorder()
			RequireStaff(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

type memoryIdempotencyRepo struct {
	mu      sync.Mutex
	entries map[string]*repository.IdempotencyCacheEntry
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{entries: make(map[string]*repository.IdempotencyCacheEntry)}
}

func cacheKey(key string, userID int64) string {
	return fmt.Sprintf("%d/%s", userID, key)
}

func (m *memoryIdempotencyRepo) Get(_ context.Context, key string, userID int64) (*repository.IdempotencyCacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[cacheKey(key, userID)], nil
}

func (m *memoryIdempotencyRepo) Set(_ context.Context, entry *repository.IdempotencyCacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[cacheKey(entry.Key, entry.UserID)] = entry
	return nil
}

func TestIdempotency(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler.RespondSuccess(w, http.StatusCreated, map[string]int{"call": calls})
	})

	repo := newMemoryIdempotencyRepo()
	h := Idempotency(repo)(next)

	send := func(userID int64, key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/operations/payments", bytes.NewBufferString(body))
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		req = req.WithContext(auth.ContextWithActor(req.Context(), domain.Actor{UserID: userID}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing key", func(t *testing.T) {
		rec := send(1, "", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "MISSING_IDEMPOTENCY_KEY", decodeError(t, rec))
	})

	first := send(1, "k1", `{"amount":"10.00"}`)
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, 1, calls)

	t.Run("replay returns stored response", func(t *testing.T) {
		rec := send(1, "k1", `{"amount":"10.00"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("X-Idempotent-Replayed"))
		assert.Equal(t, first.Body.String(), rec.Body.String())
		assert.Equal(t, 1, calls)
	})

	t.Run("same key different body conflicts", func(t *testing.T) {
		rec := send(1, "k1", `{"amount":"11.00"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "IDEMPOTENCY_CONFLICT", decodeError(t, rec))
		assert.Equal(t, 1, calls)
	})

	t.Run("keys are per user", func(t *testing.T) {
		rec := send(2, "k1", `{"amount":"10.00"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 2, calls)
	})
}

func TestIdempotency_ServerErrorsNotCached(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler.RespondAppError(w, handler.ErrInternalError, nil)
	})
	h := Idempotency(newMemoryIdempotencyRepo())(next)

	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/operations/payments", bytes.NewBufferString(`{}`))
		req.Header.Set("Idempotency-Key", "k")
		req = req.WithContext(auth.ContextWithActor(req.Context(), domain.Actor{UserID: 1}))
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, 2, calls)
}

func TestIdempotency_GetPassesThrough(t *testing.T) {
	called := false
	h := Idempotency(newMemoryIdempotencyRepo())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/operations", nil))
	assert.True(t, called)
}

// captureLogger returns a request carrying a JSON logger that writes to buf.
func captureLogger(r *http.Request, buf *bytes.Buffer) *http.Request {
	logger := logging.New(buf, "debug", "production")
	return r.WithContext(logging.WithLogger(r.Context(), logger))
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		out = append(out, entry)
	}
	return out
}

func TestRecovery(t *testing.T) {
	t.Run("panic becomes internal error", func(t *testing.T) {
		var buf bytes.Buffer
		h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, captureLogger(httptest.NewRequest(http.MethodPost, "/api/v1/transfer", nil), &buf))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, rec))

		lines := logLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "panic recovered", lines[0]["msg"])
		assert.Equal(t, "boom", lines[0]["error"])
		assert.Equal(t, "POST", lines[0]["method"])
		assert.Equal(t, "/api/v1/transfer", lines[0]["path"])
	})

	t.Run("abort is re-raised", func(t *testing.T) {
		h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"absent", "", false},
		{"caller token", "req-123", true},
		{"uuid", "0b6f4f7e-3c2a-4d7e-9a51-3f0c1f5e2b10", true},
		{"dotted", "edge.42_a", true},
		{"spaces", "req 123", false},
		{"log injection", "abc\ninjected=1", false},
		{"too long", strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				seen string
				buf  bytes.Buffer
			)
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
				logging.FromContext(r.Context()).Info("inside")
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, captureLogger(req, &buf))

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
			if tt.keep {
				assert.Equal(t, tt.header, seen)
			} else {
				assert.NotEqual(t, tt.header, seen)
				_, err := uuid.Parse(seen)
				assert.NoError(t, err)
			}

			lines := logLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, seen, lines[0]["request_id"])
		})
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"ok", http.StatusOK, "INFO"},
		{"client error", http.StatusNotFound, "WARN"},
		{"server error", http.StatusBadGateway, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logging.FromContext(r.Context()).Info("handling")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("hello"))
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			req = req.WithContext(auth.ContextWithActor(req.Context(), domain.Actor{UserID: 17, IsStaff: true}))
			h.ServeHTTP(httptest.NewRecorder(), captureLogger(req, &buf))

			lines := logLines(t, &buf)
			require.Len(t, lines, 2)
			assert.Equal(t, "handling", lines[0]["msg"])
			assert.EqualValues(t, 17, lines[0]["user_id"])

			access := lines[1]
			assert.Equal(t, "request completed", access["msg"])
			assert.Equal(t, tt.level, access["level"])
			assert.EqualValues(t, tt.status, access["status"])
			assert.EqualValues(t, 5, access["bytes"])
			assert.Equal(t, true, access["is_staff"])
		})
	}

	t.Run("health is silent", func(t *testing.T) {
		var buf bytes.Buffer
		h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		h.ServeHTTP(httptest.NewRecorder(), captureLogger(httptest.NewRequest(http.MethodGet, "/health", nil), &buf))
		assert.Empty(t, buf.String())
	})
}
