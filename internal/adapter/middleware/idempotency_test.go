package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"loanverse/internal/auth"
	"loanverse/internal/domain/identity"
)

func newIdempServer(t *testing.T, calls *atomic.Int32) (*echo.Echo, *auth.TokenManager) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tm := auth.NewTokenManager("secret", "loanverse", time.Hour)
	e := echo.New()
	handler := func(c echo.Context) error {
		n := calls.Add(1)
		return c.JSON(http.StatusCreated, map[string]int32{"call": n})
	}
	e.POST("/pay", handler, Authenticate(tm), Idempotency(rdb, time.Minute))
	e.GET("/pay", handler, Authenticate(tm), Idempotency(rdb, time.Minute))
	return e, tm
}

func post(e *echo.Echo, token, reqID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(body))
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	if reqID != "" {
		req.Header.Set("Ax-Request-Id", reqID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplaysRecordedResponse(t *testing.T) {
	var calls atomic.Int32
	e, tm := newIdempServer(t, &calls)
	token := testToken(t, tm, "B1", identity.RoleBorrower)
	reqID := uuid.NewString()

	first := post(e, token, reqID, `{"x":1}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("first code = %d", first.Code)
	}
	second := post(e, token, reqID, `{"x":1}`)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay code = %d (body=%s)", second.Code, second.Body)
	}
	if calls.Load() != 1 {
		t.Fatalf("handler ran %d times, want 1", calls.Load())
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay body %q != original %q", second.Body, first.Body)
	}
}

func TestIdempotency_RejectsReusedIDWithDifferentBody(t *testing.T) {
	var calls atomic.Int32
	e, tm := newIdempServer(t, &calls)
	token := testToken(t, tm, "B1", identity.RoleBorrower)
	reqID := uuid.NewString()

	if rec := post(e, token, reqID, `{"x":1}`); rec.Code != http.StatusCreated {
		t.Fatalf("first code = %d", rec.Code)
	}
	rec := post(e, token, reqID, `{"x":2}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", rec.Code)
	}
}

func TestIdempotency_SeparateUsersDoNotCollide(t *testing.T) {
	var calls atomic.Int32
	e, tm := newIdempServer(t, &calls)
	reqID := uuid.NewString()

	post(e, testToken(t, tm, "B1", identity.RoleBorrower), reqID, `{}`)
	post(e, testToken(t, tm, "B2", identity.RoleBorrower), reqID, `{}`)
	if calls.Load() != 2 {
		t.Fatalf("handler ran %d times, want 2", calls.Load())
	}
}

func TestIdempotency_HeaderValidation(t *testing.T) {
	var calls atomic.Int32
	e, tm := newIdempServer(t, &calls)
	token := testToken(t, tm, "B1", identity.RoleBorrower)

	if rec := post(e, token, "", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing id code = %d, want 400", rec.Code)
	}
	if rec := post(e, token, "not-a-valid-id", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id code = %d, want 400", rec.Code)
	}
	if calls.Load() != 0 {
		t.Fatalf("handler ran %d times, want 0", calls.Load())
	}
}

func TestIdempotency_SkipsReadMethods(t *testing.T) {
	var calls atomic.Int32
	e, tm := newIdempServer(t, &calls)
	token := testToken(t, tm, "B1", identity.RoleBorrower)

	// No Ax-Request-Id, still passes: GET is not guarded.
	req := httptest.NewRequest(http.MethodGet, "/pay", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d (body=%s)", rec.Code, rec.Body)
	}
	if calls.Load() != 1 {
		t.Fatalf("handler ran %d times, want 1", calls.Load())
	}
}
