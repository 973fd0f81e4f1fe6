package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minidxo/internal/agent"
	"minidxo/internal/consultation"
	"minidxo/internal/platform/web"
)

type fakeGateway struct {
	text string
	err  error
	got  []consultation.Turn
}

func (f *fakeGateway) Complete(_ context.Context, transcript []consultation.Turn) (string, error) {
	f.got = transcript
	return f.text, f.err
}

func newRouter(gw agent.GatewayClient, token string) http.Handler {
	r := chi.NewRouter()
	r.Use(web.CORS)
	r.Group(func(r chi.Router) {
		r.Use(web.BearerAuth(token))
		RegisterRoutes(r, NewHandler(gw))
	})
	return r
}

func doChat(t *testing.T, h http.Handler, body string, header http.Header) (*httptest.ResponseRecorder, web.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, ChatPath, bytes.NewBufferString(body))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var errResp web.ErrorResponse
	if rec.Code != http.StatusOK {
		require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&errResp))
	}
	return rec, errResp
}

const chatBody = `{"messages":[{"role":"assistant","content":"hi"},{"role":"user","content":"fever"}]}`

func TestChatReturnsGatewayTextUnmodified(t *testing.T) {
	gw := &fakeGateway{text: `{"message":"How high is the fever?"}`}
	rec, _ := doChat(t, newRouter(gw, ""), chatBody, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, gw.text, resp.Response)
	assert.Equal(t, []consultation.Turn{
		{Role: consultation.RoleAssistant, Content: "hi"},
		{Role: consultation.RoleUser, Content: "fever"},
	}, gw.got)
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"rate limited", consultation.ErrRateLimited, http.StatusTooManyRequests, msgRateLimited},
		{"quota", consultation.ErrQuotaExceeded, http.StatusPaymentRequired, msgQuotaExceeded},
		{"not configured", consultation.ErrNotConfigured, http.StatusInternalServerError, consultation.ErrNotConfigured.Error()},
		{"gateway status", &agent.StatusError{Code: 503, Body: "down"}, http.StatusInternalServerError, "AI Gateway error: 503"},
		{"transport", errors.New("dial tcp: refused"), http.StatusInternalServerError, "dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, errResp := doChat(t, newRouter(&fakeGateway{err: tt.err}, ""), chatBody, nil)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.message, errResp.Error)
		})
	}
}

func TestChatInvalidBody(t *testing.T) {
	rec, errResp := doChat(t, newRouter(&fakeGateway{}, ""), "{", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, errResp.Error)
}

func TestChatRequiresTokenWhenConfigured(t *testing.T) {
	h := newRouter(&fakeGateway{text: `{"message":"ok"}`}, "secret")

	rec, _ := doChat(t, h, chatBody, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doChat(t, h, chatBody, http.Header{"Authorization": {"Bearer secret"}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, ChatPath, nil)
	rec := httptest.NewRecorder()
	newRouter(&fakeGateway{}, "secret").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "authorization")
	assert.Empty(t, rec.Body.String())
}
