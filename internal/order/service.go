package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/storefront/internal/cart"
	"github.com/wichananm65/storefront/internal/payment"
	"github.com/wichananm65/storefront/internal/session"
	"go.uber.org/zap"
)

// CartReader returns the priced cart that checkout snapshots.
type CartReader interface {
	GetCart(userID int) (cart.View, error)
}

type Service struct {
	repo    Repository
	carts   CartReader
	gateway payment.Gateway
	taxRate decimal.Decimal
	timeout time.Duration
	now     func() time.Time
}

func NewService(repo Repository, carts CartReader, gateway payment.Gateway, taxRate decimal.Decimal, timeout time.Duration) *Service {
	return &Service{
		repo:    repo,
		carts:   carts,
		gateway: gateway,
		taxRate: taxRate,
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Checkout snapshots the user's cart into a new Processing order, charges
// the total and empties the cart. Nothing changes unless payment is approved.
func (s *Service) Checkout(ctx context.Context, userID int) (Order, error) {
	view, err := s.carts.GetCart(userID)
	if err != nil {
		return Order{}, err
	}
	if len(view.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	subtotal := cart.Total(view.Items)
	tax := subtotal.Mul(s.taxRate).Round(2)
	o := Order{
		ID:          "ORD-" + uuid.NewString(),
		UserID:      userID,
		Date:        s.now(),
		Items:       view.Items,
		Subtotal:    subtotal,
		Tax:         tax,
		TotalAmount: subtotal.Add(tax),
		Status:      StatusProcessing,
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	placed, err := s.repo.Place(ctx, o, func(ctx context.Context) (string, error) {
		res, err := s.gateway.Charge(ctx, userID, o.TotalAmount)
		if err != nil {
			return "", withReason(ErrPaymentFailed, err.Error())
		}
		switch res.Status {
		case payment.Approved:
			return res.Reference, nil
		case payment.Declined:
			return "", withReason(ErrPaymentDeclined, res.Reason)
		default:
			return "", withReason(ErrPaymentFailed, res.Reason)
		}
	})
	if err != nil {
		zap.L().Warn("checkout failed",
			zap.Int("user_id", userID),
			zap.String("order_id", o.ID),
			zap.String("total", o.TotalAmount.StringFixed(2)),
			zap.Error(err))
		return Order{}, err
	}

	zap.L().Info("order placed",
		zap.Int("user_id", userID),
		zap.String("order_id", placed.ID),
		zap.String("total", placed.TotalAmount.StringFixed(2)))
	return placed, nil
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) ListAll() ([]Order, error) {
	return s.repo.List()
}

// Get returns an order visible to the session: its owner or an admin.
func (s *Service) Get(sess session.Session, id string) (Order, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != sess.UserID && !sess.IsAdmin() {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (s *Service) AdvanceStatus(id string, to Status) (Order, error) {
	if !to.Valid() {
		return Order{}, ErrInvalidStatus
	}
	current, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if !current.Status.CanAdvanceTo(to) {
		return Order{}, ErrInvalidTransition
	}
	return s.repo.UpdateStatus(id, current.Status, to)
}

// Delete removes an order. Only the admin routes reach it.
func (s *Service) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	zap.L().Info("order deleted", zap.String("order_id", id))
	return nil
}

// HasPurchased reports whether any of the user's orders contains productID.
func (s *Service) HasPurchased(userID, productID int) (bool, error) {
	return s.repo.HasPurchased(userID, productID)
}

func withReason(err error, reason string) error {
	if reason == "" {
		return err
	}
	return errors.WithMessage(err, reason)
}
