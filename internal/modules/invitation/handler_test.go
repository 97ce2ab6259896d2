package invitation

import (
	"bytes"
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
	tokens := jwt.New("invitation-handler-secret", time.Hour)

	router := gin.New()
	api := router.Group("/api")
	h := NewHandler(f.svc)
	h.RegisterPublicRoutes(api)
	h.RegisterProtectedRoutes(api.Group("", middleware.JWTAuth(tokens)))

	return &handlerFixture{fixture: f, router: router, tokens: tokens}
}

// do sends body as user; a nil user sends no token.
func (h *handlerFixture) do(t *testing.T, method, path, body string, user *domain.User) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := h.tokens.GenerateToken(user.ID, jwt.RoleUser)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

const contentBody = `{
	"welcome_message": "Join us",
	"rsvp_date": "2026-06-01",
	"personal_name": "Mia",
	"partner_name": "Sam",
	"venue_name": "Old Mill",
	"venue_address": "1 River Road",
	"wedding_date": "2026-06-20",
	"wedding_time": "16:30",
	"city": "Ljubljana"
}`

func TestHandler_Content(t *testing.T) {
	h := newHandlerFixture(t)
	path := "/api/templates/" + strconv.FormatInt(h.tpl.ID, 10) + "/content"

	t.Run("requires a token", func(t *testing.T) {
		w, _ := h.do(t, http.MethodPut, path, contentBody, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w, env := h.do(t, http.MethodPut, path, `{"welcome_message":"Hi"}`, h.owner)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, string(env.Data), "venue_name")
	})

	t.Run("not purchased", func(t *testing.T) {
		w, env := h.do(t, http.MethodPut, path, contentBody, h.other)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("save then read", func(t *testing.T) {
		w, _ := h.do(t, http.MethodPut, path, contentBody, h.owner)
		require.Equal(t, http.StatusOK, w.Code)

		w, env := h.do(t, http.MethodGet, path, "", h.owner)
		require.Equal(t, http.StatusOK, w.Code)
		var c ContentResponse
		require.NoError(t, json.Unmarshal(env.Data, &c))
		assert.Equal(t, "Old Mill", c.VenueName)
		assert.Equal(t, "http://localhost:3000/rsvp?order="+strconv.FormatInt(h.order.ID, 10), c.RSVPLink)
	})
}

func TestHandler_RSVPFlow(t *testing.T) {
	h := newHandlerFixture(t)
	h.saveContent(t)
	rsvpPath := "/api/orders/" + strconv.FormatInt(h.order.ID, 10) + "/rsvp"
	listPath := "/api/templates/" + strconv.FormatInt(h.tpl.ID, 10) + "/rsvps"

	t.Run("attendance is required", func(t *testing.T) {
		w, env := h.do(t, http.MethodPost, rsvpPath, `{"guest_name":"Ana","guest_email":"ana@example.com","guest_phone":"555"}`, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, string(env.Data), "attendance")
	})

	t.Run("bad email", func(t *testing.T) {
		w, env := h.do(t, http.MethodPost, rsvpPath, `{"guest_name":"Ana","guest_email":"ana","guest_phone":"555","attendance":1}`, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, string(env.Data), "guest_email")
	})

	var rsvpID int64
	t.Run("first answer is created without a token", func(t *testing.T) {
		body := `{"guest_name":"Ana","guest_email":"ana@example.com","guest_phone":"555","attendance":1,"bring_guests":["Luka"]}`
		w, env := h.do(t, http.MethodPost, rsvpPath, body, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		var r RSVPResponse
		require.NoError(t, json.Unmarshal(env.Data, &r))
		assert.Equal(t, []string{"Luka"}, r.BringGuests)
		rsvpID = r.ID
	})

	t.Run("declining later updates the answer", func(t *testing.T) {
		body := `{"guest_name":"Ana","guest_email":"ANA@example.com","guest_phone":"555","attendance":0}`
		w, env := h.do(t, http.MethodPost, rsvpPath, body, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var r RSVPResponse
		require.NoError(t, json.Unmarshal(env.Data, &r))
		assert.Equal(t, rsvpID, r.ID)
		assert.Equal(t, 0, r.Attendance)
	})

	t.Run("owner lists declined guests", func(t *testing.T) {
		w, env := h.do(t, http.MethodGet, listPath+"?attendance=0", "", h.owner)
		require.Equal(t, http.StatusOK, w.Code)
		var list RSVPList
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Equal(t, int64(1), list.Total)
		assert.Equal(t, int64(1), list.Declined)
		assert.Equal(t, int64(0), list.Attending)
	})

	t.Run("bad attendance filter", func(t *testing.T) {
		w, _ := h.do(t, http.MethodGet, listPath+"?attendance=maybe", "", h.owner)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("single answer is owner only", func(t *testing.T) {
		path := "/api/rsvps/" + strconv.FormatInt(rsvpID, 10)
		w, _ := h.do(t, http.MethodGet, path, "", h.owner)
		assert.Equal(t, http.StatusOK, w.Code)

		w, _ = h.do(t, http.MethodGet, path, "", h.other)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown invitation", func(t *testing.T) {
		body := `{"guest_name":"Ana","guest_email":"ana@example.com","guest_phone":"555","attendance":1}`
		w, _ := h.do(t, http.MethodPost, "/api/orders/424242/rsvp", body, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w, _ = h.do(t, http.MethodPost, "/api/orders/x/rsvp", body, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
