package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"weddingmarket/internal/domain"
	"weddingmarket/internal/gateway"
	"weddingmarket/internal/lock"
	"weddingmarket/internal/notification"
	"weddingmarket/internal/pkg/apperror"
	"weddingmarket/internal/repository"
)

const (
	summaryDateLayout = "01/02/2006"
	summaryTimeLayout = "15:04:05"
)

type Dependencies struct {
	DB        *gorm.DB
	Orders    OrderRepository
	Inquiries InquiryRepository
	Templates TemplateRepository
	Packages  PackageRepository
	Users     UserRepository
	Events    WebhookEventRepository
	Gateway   Gateway
	Locker    lock.Locker
	Publisher notification.Publisher
	Currency  string
	Logger    *zap.Logger
}

// Service drives orders from intent creation to a terminal state.
type Service struct {
	db        *gorm.DB
	orders    OrderRepository
	inquiries InquiryRepository
	templates TemplateRepository
	packages  PackageRepository
	users     UserRepository
	events    WebhookEventRepository
	gateway   Gateway
	locker    lock.Locker
	publisher notification.Publisher
	currency  string
	log       *zap.Logger
	now       func() time.Time
}

func NewService(d Dependencies) *Service {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	locker := d.Locker
	if locker == nil {
		locker = lock.NewLocal()
	}
	publisher := d.Publisher
	if publisher == nil {
		publisher = notification.NewLog(log)
	}
	currency := strings.ToLower(d.Currency)
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		db:        d.DB,
		orders:    d.Orders,
		inquiries: d.Inquiries,
		templates: d.Templates,
		packages:  d.Packages,
		users:     d.Users,
		events:    d.Events,
		gateway:   d.Gateway,
		locker:    locker,
		publisher: publisher,
		currency:  currency,
		log:       log.Named("payment"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) InitiateTemplatePayment(ctx context.Context, userID, templateID int64) (*InitiatePaymentResponse, error) {
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, notFoundOr(err, ErrTemplateNotFound)
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, templateLockKey(userID, tpl.ID))
	if err != nil {
		return nil, internal(err)
	}
	defer unlock()

	tplID := tpl.ID
	order := &domain.Order{
		UserID:        userID,
		TemplateID:    &tplID,
		ServiceBooked: domain.OrderKindTemplate,
		Amount:        tpl.Price,
		Currency:      s.currency,
		Status:        domain.OrderPending,
		Metadata: domain.OrderMetadata{Template: &domain.TemplateOrderMetadata{
			TemplateID:    tpl.ID,
			TemplateTitle: tpl.Title,
			UserID:        user.ID,
			UserName:      user.Name,
			UserEmail:     user.Email,
		}},
	}

	var intent *gateway.Intent
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned, err := s.orders.HasCompletedTemplateOrder(ctx, tx, userID, tpl.ID, 0)
		if err != nil {
			return err
		}
		if owned {
			return ErrAlreadyPurchased
		}
		intent, err = s.openIntent(ctx, user.Name, user.Email, order, "Template: "+tpl.Title)
		if err != nil {
			return err
		}
		return s.orders.Create(ctx, tx, order)
	})
	if err != nil {
		s.abandonIntent(intent, err)
		return nil, s.mapErr(err)
	}

	s.log.Info("template payment initiated",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Int64("template_id", tpl.ID),
		zap.String("payment_intent_id", intent.ID))
	return initiateResponse(order, intent, 0), nil
}

func (s *Service) InitiatePackagePayment(ctx context.Context, userID, packageID int64, req InitiatePackagePaymentRequest) (*InitiatePaymentResponse, error) {
	dates, err := parseEventDates(req.EventStartDate, req.EventEndDate)
	if err != nil {
		return nil, err
	}
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, notFoundOr(err, ErrPackageNotFound)
	}
	if !pkg.ActiveStatus {
		return nil, ErrPackageInactive
	}
	if pkg.Capacity > 0 && req.Guests > pkg.Capacity {
		return nil, apperror.Validation(map[string]string{"guests": "max"})
	}
	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, packageLockKey(pkg.ID))
	if err != nil {
		return nil, internal(err)
	}
	defer unlock()

	eventType := strings.TrimSpace(req.EventType)
	if eventType == "" {
		eventType = domain.DefaultEventType
	}
	inquiry := &domain.PackageInquiry{
		UserID:         userID,
		PackageID:      pkg.ID,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		EventStartDate: dates.Start,
		EventEndDate:   dates.End,
		Guests:         req.Guests,
		EventType:      eventType,
		Status:         domain.InquiryPending,
	}

	var (
		order  *domain.Order
		intent *gateway.Intent
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.packages.LockByID(ctx, tx, pkg.ID); err != nil {
			return err
		}
		booked, err := s.inquiries.CompletedRanges(ctx, tx, pkg.ID, 0)
		if err != nil {
			return err
		}
		if dates.OverlapsAny(booked) {
			return ErrDatesUnavailable
		}
		if err := s.inquiries.Create(ctx, tx, inquiry); err != nil {
			return err
		}

		pkgID, inquiryID := pkg.ID, inquiry.ID
		order = &domain.Order{
			UserID:           userID,
			PackageID:        &pkgID,
			PackageInquiryID: &inquiryID,
			ServiceBooked:    domain.OrderKindPackage,
			Amount:           pkg.Price,
			Currency:         s.currency,
			Status:           domain.OrderPending,
			Metadata: domain.OrderMetadata{Package: &domain.PackageOrderMetadata{
				InquiryID:    inquiry.ID,
				PackageID:    pkg.ID,
				ServiceTitle: pkg.ServiceTitle,
				UserID:       userID,
				UserName:     inquiry.Name,
				UserEmail:    inquiry.Email,
			}},
		}
		intent, err = s.openIntent(ctx, inquiry.Name, inquiry.Email, order, "Package: "+pkg.ServiceTitle)
		if err != nil {
			return err
		}
		return s.orders.Create(ctx, tx, order)
	})
	if err != nil {
		s.abandonIntent(intent, err)
		return nil, s.mapErr(err)
	}

	s.log.Info("package payment initiated",
		zap.Int64("order_id", order.ID),
		zap.Int64("inquiry_id", inquiry.ID),
		zap.Int64("package_id", pkg.ID),
		zap.String("dates", dates.String()),
		zap.String("payment_intent_id", intent.ID))
	return initiateResponse(order, intent, inquiry.ID), nil
}

func (s *Service) ConfirmTemplatePayment(ctx context.Context, userID, templateID int64, req ConfirmPaymentRequest) (*PaymentSummary, error) {
	return s.confirm(ctx, userID, domain.OrderKindTemplate, templateID, req)
}

func (s *Service) ConfirmPackagePayment(ctx context.Context, userID, packageID int64, req ConfirmPaymentRequest) (*PaymentSummary, error) {
	return s.confirm(ctx, userID, domain.OrderKindPackage, packageID, req)
}

// confirm charges the order's intent and completes the order. The item lock is
// held from the availability check until the order is completed, so no
// competing order can settle between the check and the charge.
func (s *Service) confirm(ctx context.Context, userID int64, kind domain.OrderKind, itemID int64, req ConfirmPaymentRequest) (*PaymentSummary, error) {
	order, err := s.ownedOrder(ctx, userID, kind, itemID, req.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return s.settledSummary(ctx, order)
	}

	unlock, err := s.locker.Lock(ctx, lockKeyFor(order))
	if err != nil {
		return nil, internal(err)
	}
	defer unlock()

	// a webhook may have settled the order while we waited for the lock
	order, err = s.ownedOrder(ctx, userID, kind, itemID, req.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return s.settledSummary(ctx, order)
	}

	if err := s.checkCompletable(ctx, nil, order); err != nil {
		return nil, s.mapErr(err)
	}

	intent, err := s.gateway.RetrieveIntent(ctx, order.PaymentIntentID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if intent.Status != gateway.IntentSucceeded {
		intent, err = s.gateway.ConfirmIntent(ctx, intent.ID, req.PaymentMethod)
		if err != nil {
			s.log.Warn("payment confirmation failed",
				zap.Int64("order_id", order.ID),
				zap.String("payment_intent_id", order.PaymentIntentID),
				zap.Error(err))
			return nil, s.mapErr(err)
		}
	}
	if intent.Status != gateway.IntentSucceeded {
		s.log.Info("payment not settled after confirmation",
			zap.Int64("order_id", order.ID),
			zap.String("intent_status", string(intent.Status)))
		return nil, ErrPaymentIncomplete
	}

	if _, err := s.completeLocked(ctx, order); err != nil {
		s.log.Error("settled payment could not be completed",
			zap.Int64("order_id", order.ID),
			zap.String("payment_intent_id", order.PaymentIntentID),
			zap.Error(err))
		return nil, err
	}
	return summarize(order, intent), nil
}

// ownedOrder loads the order of intentID and checks it belongs to the caller
// and to the item in the path.
func (s *Service) ownedOrder(ctx context.Context, userID int64, kind domain.OrderKind, itemID int64, intentID string) (*domain.Order, error) {
	order, err := s.orders.FindByIntentID(ctx, nil, intentID)
	if err != nil {
		return nil, notFoundOr(err, ErrOrderNotFound)
	}
	if order.UserID != userID || order.Kind() != kind || order.ItemID() != itemID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// settledSummary answers a confirmation for an order that is already terminal.
func (s *Service) settledSummary(ctx context.Context, order *domain.Order) (*PaymentSummary, error) {
	if order.Status == domain.OrderFailed {
		return nil, ErrOrderFailed
	}
	intent, err := s.gateway.RetrieveIntent(ctx, order.PaymentIntentID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return summarize(order, intent), nil
}

// HandleWebhook verifies and applies one gateway event. A nil error means the
// event may be acknowledged.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		s.log.Warn("webhook rejected", zap.Error(err))
		if errors.Is(err, gateway.ErrInvalidSignature) {
			return ErrInvalidSignature.With(err)
		}
		return ErrMalformedEvent.With(err)
	}

	log := s.log.With(zap.String("event_id", ev.ID), zap.String("event_type", string(ev.Type)))

	seen, err := s.events.Exists(ctx, ev.ID)
	if err != nil {
		return internal(err)
	}
	if seen {
		log.Info("webhook event already processed")
		return nil
	}

	switch ev.Type {
	case gateway.EventIntentSucceeded:
		err = s.reconcile(ctx, log, ev.Intent, domain.OrderCompleted)
	case gateway.EventIntentFailed:
		err = s.reconcile(ctx, log, ev.Intent, domain.OrderFailed)
	case gateway.EventIntentCreated:
		log.Info("payment intent created")
	default:
		log.Debug("webhook event ignored")
	}
	if err != nil {
		return s.mapErr(err)
	}

	if err := s.events.MarkProcessed(ctx, ev.ID, string(ev.Type)); err != nil {
		return internal(err)
	}
	return nil
}

func (s *Service) reconcile(ctx context.Context, log *zap.Logger, intent *gateway.Intent, target domain.OrderStatus) error {
	if intent == nil || intent.ID == "" {
		log.Warn("webhook event without payment intent")
		return nil
	}
	log = log.With(zap.String("payment_intent_id", intent.ID))

	order, err := s.orders.FindByIntentID(ctx, nil, intent.ID)
	if repository.IsNotFound(err) {
		log.Warn("no order for payment intent")
		return nil
	}
	if err != nil {
		return err
	}
	if order.Status == target {
		log.Debug("order already in target status")
		return nil
	}
	if order.Status.IsTerminal() {
		log.Warn("order already terminal", zap.String("status", string(order.Status)))
		return nil
	}

	if target == domain.OrderFailed {
		return s.fail(ctx, order)
	}

	_, err = s.complete(ctx, order)
	if errors.Is(err, ErrAlreadyPurchased) || errors.Is(err, ErrDatesUnavailable) || errors.Is(err, ErrOrderFailed) {
		log.Error("settled payment conflicts with existing orders, order left pending",
			zap.Int64("order_id", order.ID), zap.Error(err))
		return nil
	}
	return err
}

// complete moves a Pending order to Completed under the item lock and reports
// whether this call made the change.
func (s *Service) complete(ctx context.Context, order *domain.Order) (bool, error) {
	unlock, err := s.locker.Lock(ctx, lockKeyFor(order))
	if err != nil {
		return false, internal(err)
	}
	defer unlock()
	return s.completeLocked(ctx, order)
}

// completeLocked is complete for callers already holding the item lock.
func (s *Service) completeLocked(ctx context.Context, order *domain.Order) (bool, error) {
	now := s.now()
	var changed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.Kind() == domain.OrderKindPackage {
			if _, err := s.packages.LockByID(ctx, tx, *order.PackageID); err != nil {
				return err
			}
		}
		if err := s.checkCompletable(ctx, tx, order); err != nil {
			return err
		}
		var err error
		changed, err = s.orders.TransitionStatus(ctx, tx, order.ID, domain.OrderPending, domain.OrderCompleted, now)
		return err
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return false, ErrAlreadyPurchased.With(err)
		}
		return false, s.mapErr(err)
	}

	if !changed {
		current, err := s.orders.FindByIntentID(ctx, nil, order.PaymentIntentID)
		if err != nil {
			return false, internal(err)
		}
		if current.Status == domain.OrderFailed {
			return false, ErrOrderFailed
		}
		*order = *current
		return false, nil
	}

	order.Status = domain.OrderCompleted
	order.CompletedAt = &now
	s.log.Info("order completed",
		zap.Int64("order_id", order.ID),
		zap.String("payment_intent_id", order.PaymentIntentID))
	s.publish(ctx, notification.OrderCompleted, order)
	return true, nil
}

func (s *Service) fail(ctx context.Context, order *domain.Order) error {
	now := s.now()
	changed, err := s.orders.TransitionStatus(ctx, nil, order.ID, domain.OrderPending, domain.OrderFailed, now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	order.Status = domain.OrderFailed
	order.FailedAt = &now
	s.log.Info("order failed",
		zap.Int64("order_id", order.ID),
		zap.String("payment_intent_id", order.PaymentIntentID))
	s.publish(ctx, notification.OrderFailed, order)
	return nil
}

// checkCompletable reports whether completing order would break the
// one-purchase-per-template rule or double-book its package.
func (s *Service) checkCompletable(ctx context.Context, tx *gorm.DB, order *domain.Order) error {
	switch order.Kind() {
	case domain.OrderKindTemplate:
		owned, err := s.orders.HasCompletedTemplateOrder(ctx, tx, order.UserID, *order.TemplateID, order.ID)
		if err != nil {
			return err
		}
		if owned {
			return ErrAlreadyPurchased
		}
	case domain.OrderKindPackage:
		if order.Inquiry == nil {
			return fmt.Errorf("order %d: inquiry not loaded", order.ID)
		}
		booked, err := s.inquiries.CompletedRanges(ctx, tx, *order.PackageID, order.ID)
		if err != nil {
			return err
		}
		if order.Inquiry.DateRange().OverlapsAny(booked) {
			return ErrDatesUnavailable
		}
	}
	return nil
}

// openIntent creates the gateway customer and intent and stamps their ids on o.
func (s *Service) openIntent(ctx context.Context, name, email string, o *domain.Order, description string) (*gateway.Intent, error) {
	customerID, err := s.gateway.CreateCustomer(ctx, gateway.CreateCustomerRequest{Name: name, Email: email})
	if err != nil {
		return nil, err
	}
	intent, err := s.gateway.CreateIntent(ctx, gateway.CreateIntentRequest{
		AmountMinor: domain.ToMinorUnits(o.Amount),
		Currency:    o.Currency,
		CustomerID:  customerID,
		Description: description,
		Metadata:    o.Metadata.GatewayMetadata(),
	})
	if err != nil {
		return nil, err
	}
	o.PaymentIntentID = intent.ID
	o.CustomerID = customerID
	return intent, nil
}

// abandonIntent cancels an intent whose order was never persisted.
func (s *Service) abandonIntent(intent *gateway.Intent, cause error) {
	if intent == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.gateway.CancelIntent(ctx, intent.ID); err != nil {
		s.log.Error("cancel orphaned payment intent failed",
			zap.String("payment_intent_id", intent.ID),
			zap.NamedError("cause", cause),
			zap.Error(err))
		return
	}
	s.log.Warn("orphaned payment intent cancelled",
		zap.String("payment_intent_id", intent.ID),
		zap.NamedError("cause", cause))
}

func (s *Service) publish(ctx context.Context, routingKey string, o *domain.Order) {
	ev := notification.OrderEvent{
		OrderID:         o.ID,
		UserID:          o.UserID,
		Kind:            string(o.Kind()),
		ItemID:          o.ItemID(),
		PaymentIntentID: o.PaymentIntentID,
		Amount:          o.Amount.StringFixed(2),
		Currency:        o.Currency,
		Status:          string(o.Status),
		OccurredAt:      s.now(),
	}
	if err := s.publisher.Publish(ctx, routingKey, ev); err != nil {
		s.log.Warn("publish order event failed",
			zap.String("routing_key", routingKey),
			zap.Int64("order_id", o.ID),
			zap.Error(err))
	}
}

func (s *Service) loadUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	return u, nil
}

// mapErr turns gateway and storage failures into client-facing errors.
func (s *Service) mapErr(err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	var gwErr *gateway.Error
	switch {
	case errors.Is(err, gateway.ErrUnavailable):
		return ErrGatewayDown.With(err)
	case errors.Is(err, gateway.ErrIntentNotFound):
		return ErrIntentNotFound.With(err)
	case errors.As(err, &gwErr) && gwErr.Message != "":
		return apperror.Wrap(apperror.KindGateway, gwErr.Message, err)
	case errors.Is(err, gateway.ErrRejected):
		return ErrPaymentRejected.With(err)
	}
	return internal(err)
}

func parseEventDates(start, end string) (domain.DateRange, error) {
	fields := map[string]string{}
	from, err := domain.ParseDate(start)
	if err != nil {
		fields["event_start_date"] = "date"
	}
	to, err := domain.ParseDate(end)
	if err != nil {
		fields["event_end_date"] = "date"
	}
	if len(fields) > 0 {
		return domain.DateRange{}, apperror.Validation(fields)
	}
	r, err := domain.NewDateRange(from, to)
	if err != nil {
		return domain.DateRange{}, apperror.Validation(map[string]string{"event_end_date": "gtefield"})
	}
	return r, nil
}

func summarize(o *domain.Order, intent *gateway.Intent) *PaymentSummary {
	product := intent.Metadata[domain.MetaProduct]
	if product == "" {
		product = o.Metadata.Product()
	}
	customer := intent.Metadata[domain.MetaCustomer]
	if customer == "" {
		customer = o.Metadata.Customer()
	}
	currency := intent.Currency
	if currency == "" {
		currency = o.Currency
	}
	settled := intent.Created
	if settled.IsZero() && o.CompletedAt != nil {
		settled = o.CompletedAt.UTC()
	}

	return &PaymentSummary{
		OrderID:       o.ID,
		TransactionID: intent.ID,
		Amount:        domain.FromMinorUnits(intent.AmountReceived),
		Currency:      currency,
		Date:          settled.Format(summaryDateLayout),
		Time:          settled.Format(summaryTimeLayout),
		PaymentMethod: intent.PaymentMethodType(),
		Product:       product,
		Customer:      customer,
		Status:        string(o.Status),
	}
}

func initiateResponse(o *domain.Order, intent *gateway.Intent, inquiryID int64) *InitiatePaymentResponse {
	return &InitiatePaymentResponse{
		OrderID:         o.ID,
		InquiryID:       inquiryID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		CustomerID:      o.CustomerID,
		Amount:          o.Amount,
		Currency:        o.Currency,
		Status:          string(o.Status),
		Metadata:        o.Metadata.GatewayMetadata(),
	}
}

func notFoundOr(err error, notFound *apperror.Error) error {
	if repository.IsNotFound(err) {
		return notFound
	}
	return internal(err)
}

func internal(err error) error {
	return apperror.Wrap(apperror.KindInternal, "Internal server error", err)
}

func packageLockKey(id int64) string {
	return "package:" + strconv.FormatInt(id, 10)
}

func templateLockKey(userID, templateID int64) string {
	return fmt.Sprintf("template:%d:user:%d", templateID, userID)
}

func lockKeyFor(o *domain.Order) string {
	if o.Kind() == domain.OrderKindPackage {
		return packageLockKey(*o.PackageID)
	}
	return templateLockKey(o.UserID, *o.TemplateID)
}
