package app

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"weddingmarket/internal/database"
	"weddingmarket/internal/domain"
	"weddingmarket/internal/gateway"
	jwtsvc "weddingmarket/internal/pkg/jwt"
	"weddingmarket/internal/repository"
)

const e2eWebhookSecret = "whsec_e2e"

// fakeStripe serves the subset of the Stripe API the gateway adapter uses.
type fakeStripe struct {
	mu      sync.Mutex
	seq     int
	intents map[string]map[string]any
}

func newFakeStripe() *fakeStripe {
	return &fakeStripe{intents: map[string]map[string]any{}}
}

func (s *fakeStripe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = r.ParseForm()
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/")
	parts := strings.Split(path, "/")
	switch {
	case path == "customers":
		s.seq++
		writeJSON(w, map[string]any{"id": fmt.Sprintf("cus_%d", s.seq), "object": "customer"})
	case path == "payment_intents":
		s.seq++
		id := fmt.Sprintf("pi_e2e_%d", s.seq)
		amount, _ := strconv.ParseInt(r.PostForm.Get("amount"), 10, 64)
		meta := map[string]string{}
		for k, v := range r.PostForm {
			if strings.HasPrefix(k, "metadata[") {
				meta[strings.TrimSuffix(strings.TrimPrefix(k, "metadata["), "]")] = v[0]
			}
		}
		s.intents[id] = map[string]any{
			"id": id, "object": "payment_intent", "amount": amount, "amount_received": 0,
			"currency": r.PostForm.Get("currency"), "status": "requires_payment_method",
			"client_secret": id + "_secret", "customer": r.PostForm.Get("customer"),
			"payment_method_types": []string{"card"}, "metadata": meta, "created": time.Now().Unix(),
		}
		writeJSON(w, s.intents[id])
	case len(parts) >= 2 && parts[0] == "payment_intents":
		pi, ok := s.intents[parts[1]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]any{"error": map[string]any{"type": "invalid_request_error", "code": "resource_missing", "message": "No such payment_intent"}})
			return
		}
		if len(parts) == 3 {
			switch parts[2] {
			case "confirm":
				pi["status"] = "succeeded"
				pi["amount_received"] = pi["amount"]
			case "cancel":
				pi["status"] = "canceled"
			}
		}
		writeJSON(w, pi)
	default:
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]any{"error": map[string]any{"type": "invalid_request_error", "message": "unknown path"}})
	}
}

func (s *fakeStripe) succeededEvent(eventID, intentID string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	pi := s.intents[intentID]
	pi["status"] = "succeeded"
	pi["amount_received"] = pi["amount"]
	body, _ := json.Marshal(map[string]any{
		"id": eventID, "object": "event", "type": "payment_intent.succeeded",
		"data": map[string]any{"object": pi},
	})
	return body
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
	stripe *fakeStripe
	tokens *jwtsvc.Service
	admin  *domain.User
	alice  *domain.User
	bob    *domain.User
	tpl    *domain.Template
	pkg    *domain.Package
}

type TestResponse struct {
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	fake := newFakeStripe()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s := &E2ETestSuite{db: db, stripe: fake, tokens: jwtsvc.New("e2e-secret", time.Hour)}
	s.router = NewRouter(Deps{
		DB: db,
		Gateway: gateway.NewStripe(gateway.StripeConfig{
			SecretKey:     "sk_test_e2e",
			WebhookSecret: e2eWebhookSecret,
			Timeout:       2 * time.Second,
			BaseURL:       srv.URL,
		}, nil),
		Tokens:   s.tokens,
		Currency: "usd",
	})

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	s.admin = &domain.User{Name: "Admin", Email: "admin@test.com", PasswordHash: "x", Role: domain.RoleAdmin}
	s.alice = &domain.User{Name: "Alice Moss", Email: "alice@test.com", PasswordHash: "x", Role: domain.RoleUser}
	s.bob = &domain.User{Name: "Bob Hart", Email: "bob@test.com", PasswordHash: "x", Role: domain.RoleUser}
	for _, u := range []*domain.User{s.admin, s.alice, s.bob} {
		require.NoError(t, users.Create(ctx, u))
	}

	s.tpl = &domain.Template{Name: "template_1", Title: "Invitation Template 1", Price: decimal.NewFromInt(30)}
	require.NoError(t, repository.NewTemplateRepository(db).Create(ctx, s.tpl))
	s.pkg = &domain.Package{ServiceTitle: "Lakeside Villa", Location: "Lake Bled", Price: decimal.RequireFromString("4500.50"), Capacity: 200, ActiveStatus: true}
	require.NoError(t, repository.NewPackageRepository(db).Create(ctx, s.pkg))
	return s
}

func (s *E2ETestSuite) token(t *testing.T, u *domain.User) string {
	t.Helper()
	tok, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)
	return tok
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body any, token string, headers ...string) (*httptest.ResponseRecorder, *TestResponse) {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case nil:
	case []byte:
		raw = b
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, &resp
}

func stripeSignature(payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(e2eWebhookSecret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

// =============================================================================
// Flow 1: template purchase through confirmation
// =============================================================================

func TestFlow1_TemplatePurchase(t *testing.T) {
	s := setupTestSuite(t)
	alice := s.token(t, s.alice)
	tplPath := "/api/template/" + strconv.FormatInt(s.tpl.ID, 10)

	var intentID string
	t.Run("POST /template/:id/payment", func(t *testing.T) {
		w, resp := s.makeRequest(t, http.MethodPost, tplPath+"/payment", nil, alice)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.True(t, resp.Success)

		var data struct {
			PaymentIntentID string            `json:"payment_intent_id"`
			ClientSecret    string            `json:"client_secret"`
			Amount          decimal.Decimal   `json:"amount"`
			Metadata        map[string]string `json:"metadata"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		intentID = data.PaymentIntentID
		assert.NotEmpty(t, data.ClientSecret)
		assert.Equal(t, "30", data.Amount.String())
		assert.Equal(t, int64(3000), s.stripe.intents[intentID]["amount"])
	})

	t.Run("POST /template/:id/confirm-payment", func(t *testing.T) {
		body := map[string]string{"payment_intent_id": intentID, "payment_method": "pm_card_visa"}
		w, resp := s.makeRequest(t, http.MethodPost, tplPath+"/confirm-payment", body, alice)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Payment completed successfully", resp.Message)

		var summary struct {
			TransactionID string `json:"transaction_id"`
			Product       string `json:"product"`
			Status        string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &summary))
		assert.Equal(t, intentID, summary.TransactionID)
		assert.Equal(t, "Invitation Template 1", summary.Product)
	})

	var orderID int64
	t.Run("GET /orders", func(t *testing.T) {
		w, resp := s.makeRequest(t, http.MethodGet, "/api/orders", nil, alice)
		require.Equal(t, http.StatusOK, w.Code)
		var orders []struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &orders))
		require.Len(t, orders, 1)
		assert.Equal(t, "Completed", orders[0].Status)
		orderID = orders[0].ID
	})

	t.Run("second purchase is rejected", func(t *testing.T) {
		w, resp := s.makeRequest(t, http.MethodPost, tplPath+"/payment", nil, alice)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "You have already purchased this template", resp.Message)
	})

	t.Run("another user can still buy", func(t *testing.T) {
		w, _ := s.makeRequest(t, http.MethodPost, tplPath+"/payment", nil, s.token(t, s.bob))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	contentPath := "/api/templates/" + strconv.FormatInt(s.tpl.ID, 10) + "/content"
	t.Run("PUT /templates/:id/content", func(t *testing.T) {
		now := time.Now().UTC()
		body := map[string]string{
			"welcome_message": "Join us",
			"rsvp_date":       now.AddDate(0, 0, 30).Format("2006-01-02"),
			"personal_name":   "Alice",
			"partner_name":    "Sam",
			"venue_name":      "Old Mill",
			"venue_address":   "1 River Road",
			"wedding_date":    now.AddDate(0, 0, 60).Format("2006-01-02"),
			"wedding_time":    "16:30",
			"city":            "Ljubljana",
		}
		w, resp := s.makeRequest(t, http.MethodPut, contentPath, body, alice)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var content struct {
			RSVPLink string `json:"rsvp_link"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &content))
		assert.True(t, strings.HasSuffix(content.RSVPLink, "/rsvp?order="+strconv.FormatInt(orderID, 10)))

		w, _ = s.makeRequest(t, http.MethodGet, contentPath, nil, s.token(t, s.bob))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("guests answer and the buyer lists them", func(t *testing.T) {
		rsvpPath := "/api/orders/" + strconv.FormatInt(orderID, 10) + "/rsvp"
		body := map[string]any{"guest_name": "Eva", "guest_email": "eva@example.com", "guest_phone": "555-0150", "attendance": 1}
		w, _ := s.makeRequest(t, http.MethodPost, rsvpPath, body, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		body["attendance"] = 0
		w, _ = s.makeRequest(t, http.MethodPost, rsvpPath, body, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w, resp := s.makeRequest(t, http.MethodGet, "/api/templates/"+strconv.FormatInt(s.tpl.ID, 10)+"/rsvps?attendance=0", nil, alice)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var list struct {
			Total    int64 `json:"total"`
			Declined int64 `json:"declined"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &list))
		assert.Equal(t, int64(1), list.Total)
		assert.Equal(t, int64(1), list.Declined)
	})
}

// =============================================================================
// Flow 2: package booking settled by webhook, then availability
// =============================================================================

func TestFlow2_PackageBookingViaWebhook(t *testing.T) {
	s := setupTestSuite(t)
	pkgPath := "/api/package/" + strconv.FormatInt(s.pkg.ID, 10)
	booking := map[string]any{
		"name": "Alice Moss", "email": "alice@test.com", "phone": "555-0100",
		"event_start_date": "2025-09-12", "event_end_date": "2025-09-14", "guests": 150,
	}

	var intentID string
	t.Run("initiate", func(t *testing.T) {
		w, resp := s.makeRequest(t, http.MethodPost, pkgPath+"/payment", booking, s.token(t, s.alice))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var data struct {
			PaymentIntentID string `json:"payment_intent_id"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		intentID = data.PaymentIntentID
		assert.Equal(t, int64(450050), s.stripe.intents[intentID]["amount"])
	})

	t.Run("pending booking does not block dates", func(t *testing.T) {
		_, resp := s.makeRequest(t, http.MethodGet, pkgPath+"/booked-dates", nil, "")
		assert.JSONEq(t, fmt.Sprintf(`{"package_id":%d,"booked_dates":[]}`, s.pkg.ID), string(resp.Data))
	})

	t.Run("webhook with bad signature", func(t *testing.T) {
		payload := s.stripe.succeededEvent("evt_forged", intentID)
		w, _ := s.makeRequest(t, http.MethodPost, "/api/stripe/webhook", payload, "", "Stripe-Signature", "t=1,v1=00")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("webhook succeeded", func(t *testing.T) {
		payload := s.stripe.succeededEvent("evt_paid", intentID)
		w, resp := s.makeRequest(t, http.MethodPost, "/api/stripe/webhook", payload, "", "Stripe-Signature", stripeSignature(payload))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, resp.Success)

		// redelivery is acknowledged
		w, _ = s.makeRequest(t, http.MethodPost, "/api/stripe/webhook", payload, "", "Stripe-Signature", stripeSignature(payload))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("booked dates", func(t *testing.T) {
		w, resp := s.makeRequest(t, http.MethodGet, pkgPath+"/booked-dates", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var data struct {
			BookedDates []string `json:"booked_dates"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, []string{"2025-09-12", "2025-09-13", "2025-09-14"}, data.BookedDates)
	})

	t.Run("overlapping booking rejected", func(t *testing.T) {
		overlap := map[string]any{
			"name": "Bob Hart", "email": "bob@test.com", "phone": "555-0200",
			"event_start_date": "2025-09-14", "event_end_date": "2025-09-15", "guests": 40,
		}
		w, resp := s.makeRequest(t, http.MethodPost, pkgPath+"/payment", overlap, s.token(t, s.bob))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, resp.Success)
	})

	t.Run("admin sees the inquiry", func(t *testing.T) {
		w, resp := s.makeRequest(t, http.MethodGet, "/api/admin/inquiries", nil, s.token(t, s.admin))
		require.Equal(t, http.StatusOK, w.Code)
		var list struct {
			Total int64 `json:"total"`
			Items []struct {
				EventName   string `json:"event_name"`
				OrderStatus string `json:"order_status"`
			} `json:"items"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &list))
		require.Equal(t, int64(1), list.Total)
		assert.Equal(t, "Lakeside Villa", list.Items[0].EventName)
		assert.Equal(t, "Completed", list.Items[0].OrderStatus)
	})
}

// =============================================================================
// Flow 3: staffing an inquiry from job applications
// =============================================================================

func TestFlow3_StaffAssignment(t *testing.T) {
	s := setupTestSuite(t)
	admin := s.token(t, s.admin)

	w, resp := s.makeRequest(t, http.MethodPost, "/api/admin/jobs", map[string]any{
		"job_title": "Wedding photographer", "role": "Photographer", "budget": "600",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &post))

	w, resp = s.makeRequest(t, http.MethodPost, "/api/jobs/"+strconv.FormatInt(post.ID, 10)+"/apply",
		map[string]any{"phone": "555-0300"}, s.token(t, s.bob))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var app struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &app))
	appID := strconv.FormatInt(app.ID, 10)

	inquiryID := s.completedInquiry(t)
	staffPath := "/api/admin/inquiries/" + strconv.FormatInt(inquiryID, 10) + "/staff"

	w, _ = s.makeRequest(t, http.MethodPut, staffPath, []byte(`{"photographer_application_id":`+appID+`}`), admin)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.makeRequest(t, http.MethodPatch, "/api/admin/job-applications/"+appID+"/status", map[string]string{"status": "Approved"}, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = s.makeRequest(t, http.MethodPut, staffPath, []byte(`{"photographer_application_id":`+appID+`}`), admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var detail struct {
		AssignedStaff int `json:"assigned_staff"`
		Staff         []struct {
			Name string `json:"name"`
		} `json:"staff"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &detail))
	assert.Equal(t, 1, detail.AssignedStaff)
	require.Len(t, detail.Staff, 1)
	assert.Equal(t, "Bob Hart", detail.Staff[0].Name)
}

// completedInquiry books the package for alice and settles it by webhook.
func (s *E2ETestSuite) completedInquiry(t *testing.T) int64 {
	t.Helper()
	pkgPath := "/api/package/" + strconv.FormatInt(s.pkg.ID, 10) + "/payment"
	w, resp := s.makeRequest(t, http.MethodPost, pkgPath, map[string]any{
		"name": "Alice Moss", "email": "alice@test.com", "phone": "555-0100",
		"event_start_date": "2025-10-01", "event_end_date": "2025-10-01", "guests": 20,
	}, s.token(t, s.alice))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		InquiryID       int64  `json:"inquiry_id"`
		PaymentIntentID string `json:"payment_intent_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))

	payload := s.stripe.succeededEvent("evt_"+data.PaymentIntentID, data.PaymentIntentID)
	w, _ = s.makeRequest(t, http.MethodPost, "/api/webhook", payload, "", "Stripe-Signature", stripeSignature(payload))
	require.Equal(t, http.StatusOK, w.Code)
	return data.InquiryID
}

func TestHealthAndCORS(t *testing.T) {
	s := setupTestSuite(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/templates", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
