package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votegate/internal/models"
	"votegate/internal/services"
)

type fakeOTPService struct {
	sendErr   error
	token     string
	verifyErr error
}

func (f *fakeOTPService) Send(_ context.Context, _ string) error { return f.sendErr }
func (f *fakeOTPService) Verify(_ context.Context, _, _ string) (string, error) {
	return f.token, f.verifyErr
}

type fakeBindingService struct {
	wallet string
	err    error
}

func (f *fakeBindingService) Bind(_ context.Context, _, _, _ string) (string, error) {
	return f.wallet, f.err
}

type fakeAdminService struct {
	records []models.ConflictRecord
	err     error
}

func (f *fakeAdminService) ListConflicts(_ context.Context) ([]models.ConflictRecord, error) {
	return f.records, f.err
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestOTPSendStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		sendErr    error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"bad domain", services.ErrValidation, http.StatusBadRequest},
		{"resend cooldown", services.ErrTooSoon, http.StatusTooManyRequests},
		{"no transport", services.ErrNoTransport, http.StatusInternalServerError},
		{"delivery failed", services.ErrDelivery, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOTPHandler(&fakeOTPService{sendErr: tt.sendErr})
			rec := doJSON(t, h.Send, http.MethodPost, `{"email":"van@st.qnu.edu.vn"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)

			body := decode(t, rec)
			if tt.sendErr == nil {
				assert.Equal(t, true, body["ok"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestOTPSendRejectsMalformedBody(t *testing.T) {
	h := NewOTPHandler(&fakeOTPService{})
	rec := doJSON(t, h.Send, http.MethodPost, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOTPVerify(t *testing.T) {
	h := NewOTPHandler(&fakeOTPService{token: "tok-123"})
	rec := doJSON(t, h.Verify, http.MethodPost, `{"email":"van@st.qnu.edu.vn","code":"123456"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "tok-123", body["token"])

	h = NewOTPHandler(&fakeOTPService{verifyErr: services.ErrAuth})
	rec = doJSON(t, h.Verify, http.MethodPost, `{"email":"van@st.qnu.edu.vn","code":"999999"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBindHandler(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		h := NewBindingHandler(&fakeBindingService{})
		rec := doJSON(t, h.Bind, http.MethodPost, `{"email":"van@st.qnu.edu.vn"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		h := NewBindingHandler(&fakeBindingService{wallet: "0xaaaa"})
		rec := doJSON(t, h.Bind, http.MethodPost, `{"email":"van@st.qnu.edu.vn","token":"tok","wallet":"0xAAAA"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["ok"])
		assert.Equal(t, "0xaaaa", body["wallet"])
	})

	t.Run("bad token", func(t *testing.T) {
		h := NewBindingHandler(&fakeBindingService{err: services.ErrAuth})
		rec := doJSON(t, h.Bind, http.MethodPost, `{"email":"van@st.qnu.edu.vn","token":"tok","wallet":"0xAAAA"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("conflict carries bound wallet", func(t *testing.T) {
		h := NewBindingHandler(&fakeBindingService{err: &services.ConflictError{BoundWallet: "0xaaaa"}})
		rec := doJSON(t, h.Bind, http.MethodPost, `{"email":"van@st.qnu.edu.vn","token":"tok","wallet":"0xBBBB"}`)
		require.Equal(t, http.StatusConflict, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Email da gan voi vi 0xaaaa", body["error"])
	})
}

func TestAdminConflictsAuth(t *testing.T) {
	records := []models.ConflictRecord{{Email: "van@st.qnu.edu.vn", WalletTried: "0xbbbb", WalletBound: "0xaaaa"}}
	h := NewAdminHandler(&fakeAdminService{records: records}, "secret-key")

	t.Run("missing key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/conflicts", nil)
		rec := httptest.NewRecorder()
		h.ListConflicts(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/conflicts", nil)
		req.Header.Set("x-api-key", "guess")
		rec := httptest.NewRecorder()
		h.ListConflicts(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unconfigured server refuses everyone", func(t *testing.T) {
		bare := NewAdminHandler(&fakeAdminService{}, "")
		req := httptest.NewRequest(http.MethodGet, "/admin/conflicts", nil)
		req.Header.Set("x-api-key", "")
		rec := httptest.NewRecorder()
		bare.ListConflicts(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid key lists ledger", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/conflicts", nil)
		req.Header.Set("x-api-key", "secret-key")
		rec := httptest.NewRecorder()
		h.ListConflicts(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			OK   bool                    `json:"ok"`
			Data []models.ConflictRecord `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.OK)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "0xbbbb", body.Data[0].WalletTried)
	})
}
