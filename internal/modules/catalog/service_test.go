package catalog

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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weddingmarket/internal/database"
	"weddingmarket/internal/domain"
	"weddingmarket/internal/middleware"
	"weddingmarket/internal/pkg/apperror"
	"weddingmarket/internal/pkg/jwt"
	"weddingmarket/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	svc      *Service
	router   *gin.Engine
	tokens   *jwt.Service
	tpl      *domain.Template
	active   *domain.Package
	inactive *domain.Package
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	ctx := context.Background()
	templates := repository.NewTemplateRepository(db)
	packages := repository.NewPackageRepository(db)

	f := &fixture{tokens: jwt.New("catalog-secret", time.Hour)}
	f.tpl = &domain.Template{Name: "template_1", Title: "Classic", Price: decimal.NewFromInt(30)}
	require.NoError(t, templates.Create(ctx, f.tpl))
	f.active = &domain.Package{ServiceTitle: "Garden Hall", Price: decimal.NewFromInt(800), Capacity: 120, ActiveStatus: true,
		EstateDetails: domain.JSONList[domain.EstateDetail]{{Key: "Parking", Value: "40 cars"}}}
	require.NoError(t, packages.Create(ctx, f.active))
	f.inactive = &domain.Package{ServiceTitle: "Old Barn", Price: decimal.NewFromInt(300), Capacity: 60}
	require.NoError(t, packages.Create(ctx, f.inactive))

	f.svc = NewService(templates, packages, nil)

	f.router = gin.New()
	api := f.router.Group("/api")
	h := NewHandler(f.svc)
	h.RegisterPublicRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin", middleware.JWTAuth(f.tokens), middleware.AdminOnly()))
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, admin bool) (*httptest.ResponseRecorder, json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		token, err := f.tokens.GenerateToken(1, jwt.RoleAdmin)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env.Data
}

func TestUpdateTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	price := decimal.RequireFromString("45.505")
	title := "Modern"
	got, err := f.svc.UpdateTemplate(ctx, f.tpl.ID, UpdateTemplateRequest{Title: &title, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Modern", got.Title)
	assert.Equal(t, "45.51", got.Price.StringFixed(2))

	zero := decimal.Zero
	_, err = f.svc.UpdateTemplate(ctx, f.tpl.ID, UpdateTemplateRequest{Price: &zero})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.svc.UpdateTemplate(ctx, 999, UpdateTemplateRequest{Title: &title})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestListPackages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	active, err := f.svc.ListPackages(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Garden Hall", active[0].ServiceTitle)
	assert.Equal(t, "40 cars", active[0].EstateDetails[0].Value)

	all, err := f.svc.ListPackages(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateAndUpdatePackage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePackage(ctx, CreatePackageRequest{
		ServiceTitle:     "Sea View",
		Price:            decimal.NewFromInt(1200),
		Capacity:         150,
		IncludedServices: []string{"Catering", "DJ"},
	})
	require.NoError(t, err)
	assert.True(t, p.ActiveStatus)

	off := false
	capacity := 90
	p, err = f.svc.UpdatePackage(ctx, p.ID, UpdatePackageRequest{ActiveStatus: &off, Capacity: &capacity})
	require.NoError(t, err)
	assert.False(t, p.ActiveStatus)
	assert.Equal(t, 90, p.Capacity)
	assert.Equal(t, "Sea View", p.ServiceTitle)

	reloaded, err := f.svc.GetPackage(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Catering", "DJ"}, []string(reloaded.IncludedServices))

	_, err = f.svc.CreatePackage(ctx, CreatePackageRequest{ServiceTitle: "Free", Capacity: 10})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestHandler_Catalog(t *testing.T) {
	f := newFixture(t)

	w, data := f.do(t, http.MethodGet, "/api/packages", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var pkgs []domain.Package
	require.NoError(t, json.Unmarshal(data, &pkgs))
	assert.Len(t, pkgs, 1)

	w, data = f.do(t, http.MethodGet, "/api/admin/packages", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(data, &pkgs))
	assert.Len(t, pkgs, 2)

	w, _ = f.do(t, http.MethodGet, "/api/templates/"+strconv.FormatInt(f.tpl.ID, 10), "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodGet, "/api/packages/777", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.do(t, http.MethodPut, "/api/admin/templates/"+strconv.FormatInt(f.tpl.ID, 10), `{"price":"12.50"}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, data = f.do(t, http.MethodPost, "/api/admin/packages", `{"service_title":"Loft","price":400}`, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, string(data), "capacity")

	w, data = f.do(t, http.MethodPost, "/api/admin/packages", `{"service_title":"Loft","price":400,"capacity":80,"cover_image":"https://cdn.example.com/loft.jpg"}`, true)
	require.Equal(t, http.StatusCreated, w.Code, string(data))
	var created domain.Package
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, "Loft", created.ServiceTitle)
	assert.Equal(t, "400", created.Price.String())
}
