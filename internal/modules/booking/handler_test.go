package booking

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/middleware"
	"weddingmarket/internal/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type handlerFixture struct {
	*fixture
	router *gin.Engine
	tokens *jwt.Service
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	f := newFixture(t)
	tokens := jwt.New("booking-handler-secret", time.Hour)

	router := gin.New()
	api := router.Group("/api")
	h := NewHandler(f.svc)
	h.RegisterPublicRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin", middleware.JWTAuth(tokens), middleware.AdminOnly()))

	return &handlerFixture{fixture: f, router: router, tokens: tokens}
}

func (h *handlerFixture) do(t *testing.T, method, path, body, role string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, err := h.tokens.GenerateToken(h.user.ID, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestHandler_BookedDates(t *testing.T) {
	h := newHandlerFixture(t)
	h.book(t, "2025-09-01", "2025-09-02", domain.OrderCompleted)

	w, env := h.do(t, http.MethodGet, "/api/package/"+strconv.FormatInt(h.pkg.ID, 10)+"/booked-dates", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var data BookedDatesResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []string{"2025-09-01", "2025-09-02"}, data.BookedDates)

	w, _ = h.do(t, http.MethodGet, "/api/package/424242/booked-dates", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = h.do(t, http.MethodGet, "/api/package/x/booked-dates", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandler_AdminInquiries(t *testing.T) {
	h := newHandlerFixture(t)
	inq := h.book(t, "2025-09-01", "2025-09-02", domain.OrderCompleted)
	path := "/api/admin/inquiries/" + strconv.FormatInt(inq.ID, 10)

	t.Run("non admin forbidden", func(t *testing.T) {
		w, env := h.do(t, http.MethodGet, "/api/admin/inquiries", "", jwt.RoleUser)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("list", func(t *testing.T) {
		w, env := h.do(t, http.MethodGet, "/api/admin/inquiries?limit=10", "", jwt.RoleAdmin)
		require.Equal(t, http.StatusOK, w.Code)
		var list InquiryList
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Equal(t, int64(1), list.Total)
	})

	t.Run("bad status filter", func(t *testing.T) {
		w, _ := h.do(t, http.MethodGet, "/api/admin/inquiries?status=Lost", "", jwt.RoleAdmin)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("update status", func(t *testing.T) {
		w, _ := h.do(t, http.MethodPatch, path+"/status", `{"status":"Active"}`, jwt.RoleAdmin)
		require.Equal(t, http.StatusOK, w.Code)

		got, err := h.svc.GetInquiry(context.Background(), inq.ID)
		require.NoError(t, err)
		assert.Equal(t, "Active", got.Status)
	})

	t.Run("assign unapproved staff", func(t *testing.T) {
		app := h.application(t, "Photographer", domain.ApplicationRejected)
		body := `{"photographer_application_id":` + strconv.FormatInt(app.ID, 10) + `}`
		w, env := h.do(t, http.MethodPut, path+"/staff", body, jwt.RoleAdmin)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, string(env.Data), "photographer_application_id")
	})

	t.Run("detail", func(t *testing.T) {
		w, env := h.do(t, http.MethodGet, path, "", jwt.RoleAdmin)
		require.Equal(t, http.StatusOK, w.Code)
		var detail InquiryDetail
		require.NoError(t, json.Unmarshal(env.Data, &detail))
		assert.Equal(t, inq.ID, detail.ID)
		assert.Equal(t, "555-0100", detail.Phone)
	})
}
