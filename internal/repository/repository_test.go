package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"weddingmarket/internal/database"
	"weddingmarket/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func seedPackageOrder(t *testing.T, db *gorm.DB, packageID int64, start, end string, status domain.OrderStatus, intent string) *domain.Order {
	t.Helper()
	ctx := context.Background()

	inq := &domain.PackageInquiry{
		UserID: 1, PackageID: packageID, Name: "Ann", Email: "ann@example.com", Phone: "1",
		EventStartDate: date(t, start), EventEndDate: date(t, end), Guests: 50,
		EventType: domain.DefaultEventType, Status: domain.InquiryPending,
	}
	require.NoError(t, NewInquiryRepository(db).Create(ctx, nil, inq))

	pid, iid := packageID, inq.ID
	o := &domain.Order{
		UserID: 1, PackageID: &pid, PackageInquiryID: &iid,
		ServiceBooked: domain.OrderKindPackage, Amount: decimal.NewFromInt(500), Currency: "usd",
		Status: status, PaymentIntentID: intent,
		Metadata: domain.OrderMetadata{Package: &domain.PackageOrderMetadata{PackageID: pid, InquiryID: iid, UserID: 1}},
	}
	require.NoError(t, NewOrderRepository(db).Create(ctx, nil, o))
	return o
}

func TestOrderRepository_TransitionStatusIsCompareAndSet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)
	o := seedPackageOrder(t, db, 1, "2025-06-01", "2025-06-03", domain.OrderPending, "pi_1")

	now := time.Now().UTC()
	changed, err := repo.TransitionStatus(ctx, nil, o.ID, domain.OrderPending, domain.OrderCompleted, now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.TransitionStatus(ctx, nil, o.ID, domain.OrderPending, domain.OrderFailed, now)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.FindByIntentID(ctx, nil, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.Nil(t, got.FailedAt)
	require.NotNil(t, got.Inquiry)
	assert.Equal(t, "2025-06-01", got.Inquiry.EventStartDate.Format(domain.DateLayout))
}

func TestOrderRepository_CreateRejectsInvalidOrder(t *testing.T) {
	db := newTestDB(t)
	tplID, pkgID := int64(1), int64(2)

	err := NewOrderRepository(db).Create(context.Background(), nil, &domain.Order{
		UserID: 1, TemplateID: &tplID, PackageID: &pkgID,
		ServiceBooked: domain.OrderKindTemplate, Amount: decimal.NewFromInt(30), Currency: "usd",
		Status: domain.OrderPending, PaymentIntentID: "pi_bad",
	})
	assert.ErrorIs(t, err, domain.ErrOrderItemAmbiguous)
}

func TestOrderRepository_CompletedTemplateUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	newTemplateOrder := func(intent string) *domain.Order {
		tplID := int64(3)
		o := &domain.Order{
			UserID: 7, TemplateID: &tplID, ServiceBooked: domain.OrderKindTemplate,
			Amount: decimal.NewFromInt(30), Currency: "usd", Status: domain.OrderPending, PaymentIntentID: intent,
			Metadata: domain.OrderMetadata{Template: &domain.TemplateOrderMetadata{TemplateID: 3, UserID: 7}},
		}
		require.NoError(t, repo.Create(ctx, nil, o))
		return o
	}
	first := newTemplateOrder("pi_a")
	second := newTemplateOrder("pi_b")

	_, err := repo.TransitionStatus(ctx, nil, first.ID, domain.OrderPending, domain.OrderCompleted, time.Now().UTC())
	require.NoError(t, err)

	owned, err := repo.HasCompletedTemplateOrder(ctx, nil, 7, 3, second.ID)
	require.NoError(t, err)
	assert.True(t, owned)

	_, err = repo.TransitionStatus(ctx, nil, second.ID, domain.OrderPending, domain.OrderCompleted, time.Now().UTC())
	assert.True(t, IsUniqueViolation(err))
}

func TestInquiryRepository_CompletedRanges(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	done := seedPackageOrder(t, db, 1, "2025-06-01", "2025-06-03", domain.OrderCompleted, "pi_done")
	seedPackageOrder(t, db, 1, "2025-07-01", "2025-07-02", domain.OrderPending, "pi_pending")
	seedPackageOrder(t, db, 2, "2025-06-01", "2025-06-03", domain.OrderCompleted, "pi_other_pkg")

	repo := NewInquiryRepository(db)
	ranges, err := repo.CompletedRanges(ctx, nil, 1, 0)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, "2025-06-01 to 2025-06-03", ranges[0].String())

	ranges, err = repo.CompletedRanges(ctx, nil, 1, done.ID)
	require.NoError(t, err)
	assert.Empty(t, ranges)
}

func TestInquiryRepository_ListCompleted(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewPackageRepository(db).Create(ctx, &domain.Package{ID: 1, ServiceTitle: "Villa", Price: decimal.NewFromInt(500)}))

	seedPackageOrder(t, db, 1, "2025-06-01", "2025-06-03", domain.OrderCompleted, "pi_1")
	seedPackageOrder(t, db, 1, "2025-07-01", "2025-07-03", domain.OrderPending, "pi_2")

	repo := NewInquiryRepository(db)
	items, total, err := repo.ListCompleted(ctx, InquiryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Package)
	assert.Equal(t, "Villa", items[0].Package.ServiceTitle)
	require.NotNil(t, items[0].Order)
	assert.Equal(t, domain.OrderCompleted, items[0].Order.Status)

	_, total, err = repo.ListCompleted(ctx, InquiryFilter{Status: domain.InquiryActive})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestWebhookEventRepository_MarkProcessedTwice(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewWebhookEventRepository(db)

	require.NoError(t, repo.MarkProcessed(ctx, "evt_1", "payment_intent.succeeded"))
	require.NoError(t, repo.MarkProcessed(ctx, "evt_1", "payment_intent.succeeded"))

	seen, err := repo.Exists(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = repo.Exists(ctx, "evt_2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestJobRepository_ExpirePosts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewJobRepository(db)

	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)
	expired := &domain.JobPost{JobTitle: "Photographer", Role: "Photographer", Budget: decimal.NewFromInt(100), Status: domain.JobPostActive, ApplicationDeadline: &past}
	open := &domain.JobPost{JobTitle: "Caterer", Role: "Catering", Budget: decimal.NewFromInt(100), Status: domain.JobPostActive, ApplicationDeadline: &future}
	require.NoError(t, repo.CreatePost(ctx, expired))
	require.NoError(t, repo.CreatePost(ctx, open))

	ids, err := repo.ExpirePosts(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, []int64{expired.ID}, ids)

	got, err := repo.GetPost(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobPostInactive, got.Status)

	got, err = repo.GetPost(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobPostActive, got.Status)
}
