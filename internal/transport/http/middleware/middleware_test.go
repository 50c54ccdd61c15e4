package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// capHandler — тестовый slog.Handler, который:
//   - аккумулирует базовые attrs, приходящие через Logger.With(...);
//   - собирает attrs из каждой записи в map[string]any;
//   - не создаёт реальных I/O.
type capHandler struct {
	base    []slog.Attr
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
	count   int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+8)

	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}

	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})

	h.count++
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out

	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) > 0 {
		h.base = append(h.base, attrs...)
	}

	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

func makeReq(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = (&net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 12345}).String()
	return req
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errEnvelope struct {
	Error apiError `json:"error"`
}

// wrap применяет мидлвары так, что первый в списке оказывается внешним.
func wrap(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestRequestID_GenerateAndPropagate(t *testing.T) {
	var seenID string
	var seenCtxID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get("X-Request-Id")
		seenCtxID = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	chain := wrap(h, RequestID())
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/rid"))

	respID := rr.Header().Get("X-Request-Id")
	require.NotEmpty(t, respID)
	require.Len(t, respID, 32) // 16 байт → 32 hex-символа

	require.Equal(t, respID, seenID)
	require.Equal(t, respID, seenCtxID)
}

func TestRequestID_UseExisting(t *testing.T) {
	const given = "abc123-existing-id"
	var seenCtxID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenCtxID = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	chain := wrap(h, RequestID())
	rr := httptest.NewRecorder()
	req := makeReq("/rid2")
	req.Header.Set("X-Request-Id", given)
	chain.ServeHTTP(rr, req)

	require.Equal(t, given, rr.Header().Get("X-Request-Id"))
	require.Equal(t, given, seenCtxID)
}

func TestRequestIDFrom_Empty(t *testing.T) {
	require.Equal(t, "", RequestIDFrom(context.Background()))
}

func TestTimeout_SetsDeadline_WhenAbsent(t *testing.T) {
	var hasDeadline bool
	var left time.Duration

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dl, ok := r.Context().Deadline()
		hasDeadline = ok
		if ok {
			left = time.Until(dl)
		}
		w.WriteHeader(http.StatusOK)
	})

	chain := wrap(h, Timeout(50*time.Millisecond))
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/timeout"))

	require.True(t, hasDeadline)
	require.Greater(t, left, time.Duration(0))
}

func TestTimeout_DoesNotOverrideExistingDeadline(t *testing.T) {
	var childDL time.Time

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dl, _ := r.Context().Deadline()
		childDL = dl
		w.WriteHeader(http.StatusOK)
	})

	parent, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := makeReq("/timeout2").WithContext(parent)

	chain := wrap(h, Timeout(1*time.Second)) // больше, чем у родителя
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, req)

	parentDL, _ := parent.Deadline()
	require.WithinDuration(t, parentDL, childDL, time.Millisecond)
}

func TestTimeout_ZeroIsNoop(t *testing.T) {
	var hasDeadline bool

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})

	wrap(h, Timeout(0)).ServeHTTP(httptest.NewRecorder(), makeReq("/noop"))
	require.False(t, hasDeadline)
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	chain := wrap(panicHandler, RequestID(), Recover())
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/panic"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var env errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "internal", env.Error.Code)
	require.NotEmpty(t, env.Error.Message)
	require.Equal(t, rr.Header().Get("X-Request-Id"), env.Error.RequestID)
}

func TestLogging_WritesRecord_WithStatusDurBytesAndRequestID(t *testing.T) {
	h := &capHandler{}
	logger := slog.New(h)

	const rid = "rid-456"
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Не вызываем WriteHeader — статус должен стать 200 после Write.
		_, _ = w.Write([]byte("0123456789")) // 10 байт
	})

	// RequestID до Logging, чтобы id попал в attrs лога.
	handler := wrap(final, RequestID(), Logging(logger))

	rr := httptest.NewRecorder()
	req := makeReq("/log")
	req.Header.Set("X-Request-Id", rid)

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, h.count)
	require.Equal(t, "http_request", h.lastMsg)
	require.Equal(t, slog.LevelInfo, h.lastLvl)

	method, _ := h.attrs["method"].(string)
	path, _ := h.attrs["path"].(string)
	route, _ := h.attrs["route"].(string)
	status, _ := h.attrs["status"].(int64) // slog хранит числа как int64
	bytes, _ := h.attrs["bytes"].(int64)
	ridAttr, _ := h.attrs["request_id"].(string)

	require.Equal(t, http.MethodGet, method)
	require.Equal(t, "/log", path)
	require.Empty(t, route) // вне роутера chi шаблона нет
	require.EqualValues(t, http.StatusOK, status)
	require.EqualValues(t, 10, bytes)
	require.Equal(t, rid, ridAttr)

	_, hasDur := h.attrs["dur"]
	require.True(t, hasDur)
}

// TestLogging_RecordsChiRoutePattern — в записи шаблон маршрута, а не конкретный URL.
func TestLogging_RecordsChiRoutePattern(t *testing.T) {
	h := &capHandler{}

	r := chi.NewRouter()
	r.Use(RequestID(), Logging(slog.New(h)))
	r.Get("/warnings/{code}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, makeReq("/warnings/KE"))

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, 1, h.count)
	require.Equal(t, "/warnings/{code}", h.attrs["route"])
	require.Equal(t, "/warnings/KE", h.attrs["path"])
	require.Equal(t, rr.Header().Get("X-Request-Id"), h.attrs["request_id"])
}

// TestLogging_ServerErrorAtWarn — 5xx пишутся уровнем Warn.
func TestLogging_ServerErrorAtWarn(t *testing.T) {
	h := &capHandler{}

	final := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	wrap(final, Logging(slog.New(h))).ServeHTTP(httptest.NewRecorder(), makeReq("/x"))

	require.Equal(t, slog.LevelWarn, h.lastLvl)
	require.EqualValues(t, http.StatusBadGateway, h.attrs["status"])
	_, hasRID := h.attrs["request_id"]
	require.False(t, hasRID)
}

// TestTimeout_LogsWhenDeadlineExceeded — обработчик, переживший дедлайн, даёт запись в лог.
func TestTimeout_LogsWhenDeadlineExceeded(t *testing.T) {
	h := &capHandler{}

	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		w.WriteHeader(http.StatusGatewayTimeout)
	})

	// Logging снаружи кладёт логгер в контекст; его же использует Timeout.
	wrap(slow, Logging(slog.New(h)), Timeout(10*time.Millisecond)).
		ServeHTTP(httptest.NewRecorder(), makeReq("/slow"))

	require.Equal(t, 2, h.count) // http_deadline_exceeded + http_request
}

func TestStatusWriter_CountsBytes_AndDefaultStatus200(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := newStatusWriter(rr)

	_, _ = sw.Write([]byte("abcd")) // 4 байта

	require.Equal(t, http.StatusOK, sw.status)
	require.Equal(t, 4, sw.count)
	require.Equal(t, rr, sw.Unwrap())
}
