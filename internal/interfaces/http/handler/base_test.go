package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/interfaces/http/dto"
	"github.com/siparisbot/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// decodeData re-decodes the data field of the envelope into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.True(t, resp.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func TestBaseHandler_ProviderErr(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
	}{
		{
			name:     "configuration",
			err:      integration.NewConfigurationError("Trendyol", []string{"VITE_TRENDYOL_API_KEY"}),
			wantCode: dto.ErrCodeNotConfigured,
			wantMsg:  "Trendyol credentials not configured (missing: [VITE_TRENDYOL_API_KEY])",
		},
		{
			name:     "transport",
			err:      integration.NewHTTPStatusError("Shopify", http.StatusUnauthorized, "Invalid API key"),
			wantCode: dto.ErrCodeProviderUnavailable,
			wantMsg:  "Shopify API error: Invalid API key",
		},
		{
			name:     "provider logic",
			err:      integration.NewProviderLogicError("iyzico", "Kart limiti yetersiz"),
			wantCode: dto.ErrCodeProviderError,
			wantMsg:  "Kart limiti yetersiz",
		},
		{
			name:     "not wired",
			err:      integration.NewNotImplementedError("Amazon"),
			wantCode: dto.ErrCodeNotImplemented,
			wantMsg:  "Amazon API integration is not wired",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: dto.ErrCodeProviderError,
			wantMsg:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDKey, "req-42")

			h.ProviderErr(c, tt.err)

			assert.Equal(t, http.StatusBadGateway, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Equal(t, "req-42", resp.Error.RequestID)
		})
	}
}
