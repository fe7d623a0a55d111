package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ebtehal15/turkey-items-v2/pkg/db"
	"github.com/Ebtehal15/turkey-items-v2/pkg/db/models"
	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Service exposes the order ledger operations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*OrderDTO, error)
	List(ctx context.Context, limit, offset int) ([]OrderDTO, int64, error)
	Get(ctx context.Context, orderID string) (*OrderDTO, error)
	Delete(ctx context.Context, orderID string) error
}

type service struct {
	repo *Repository
	log  *logger.Logger
}

// NewService constructs an order ledger service instance.
func NewService(repo *Repository, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo, log: log}, nil
}

// Submit validates the payload and appends the order with its items stored
// as a frozen snapshot. A duplicate order id is a definitive conflict, not
// a retryable race: the client's id is its dedup key.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*OrderDTO, error) {
	if err := validateSubmit(input); err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderID:          strings.TrimSpace(input.OrderID),
		FullName:         strings.TrimSpace(input.Customer.FullName),
		Company:          input.Customer.Company,
		Phone:            input.Customer.Phone,
		SalesPerson:      input.Customer.SalesPerson,
		Notes:            input.Customer.Notes,
		Items:            freezeItems(input.Items),
		KnownTotal:       input.KnownTotal,
		TotalItems:       input.TotalItems,
		HasUnknownPrices: input.HasUnknownPrices,
		Language:         input.Language,
	}
	if order.TotalItems == 0 {
		for _, item := range order.Items {
			order.TotalItems += item.Quantity
		}
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_orders_order_id") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order id already exists").
				WithDetails(map[string]string{"field": "orderId", "value": order.OrderID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
	}

	if s.log != nil {
		s.log.Info(s.log.WithField(ctx, "order_id", created.OrderID), "order submitted")
	}
	return NewOrderDTO(created), nil
}

// List returns orders newest first along with the total count.
func (s *service) List(ctx context.Context, limit, offset int) ([]OrderDTO, int64, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count orders")
	}
	return NewOrderDTOs(rows), total, nil
}

// Get loads one order by business key.
func (s *service) Get(ctx context.Context, orderID string) (*OrderDTO, error) {
	order, err := s.repo.FindByOrderID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return NewOrderDTO(order), nil
}

// Delete hard-deletes one order by business key.
func (s *service) Delete(ctx context.Context, orderID string) error {
	removed, err := s.repo.DeleteByOrderID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

func validateSubmit(input SubmitInput) error {
	if strings.TrimSpace(input.OrderID) == "" {
		return validationErr("orderId is required", "orderId")
	}
	if strings.TrimSpace(input.Customer.FullName) == "" {
		return validationErr("customer full name is required", "customerInfo.fullName")
	}
	if len(input.Items) == 0 {
		return validationErr("items must be a non-empty array", "items")
	}
	if input.KnownTotal.IsNegative() {
		return validationErr("knownTotal must be non-negative", "knownTotal")
	}
	for i, item := range input.Items {
		if item.ClassID <= 0 {
			return validationErr(fmt.Sprintf("items[%d].classId is required", i), "items")
		}
		if item.Quantity < 1 {
			return validationErr(fmt.Sprintf("items[%d].quantity must be at least 1", i), "items")
		}
		if strings.TrimSpace(item.SpecialID) == "" {
			return validationErr(fmt.Sprintf("items[%d].specialId is required", i), "items")
		}
		if strings.TrimSpace(item.ClassName) == "" {
			return validationErr(fmt.Sprintf("items[%d].className is required", i), "items")
		}
		if item.ClassPrice != nil && item.ClassPrice.IsNegative() {
			return validationErr(fmt.Sprintf("items[%d].classPrice must be non-negative or null", i), "items")
		}
	}
	return nil
}

func validationErr(msg, field string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg).
		WithDetails(map[string]string{"field": field})
}

func freezeItems(items []ItemInput) models.OrderItems {
	frozen := make(models.OrderItems, 0, len(items))
	for _, item := range items {
		frozen = append(frozen, models.OrderItem{
			ClassID:          item.ClassID,
			Quantity:         item.Quantity,
			SpecialID:        strings.TrimSpace(item.SpecialID),
			Quality:          strings.TrimSpace(item.Quality),
			ClassName:        strings.TrimSpace(item.ClassName),
			ClassNameArabic:  strings.TrimSpace(item.ClassNameArabic),
			ClassNameEnglish: strings.TrimSpace(item.ClassNameEnglish),
			ClassPrice:       item.ClassPrice,
		})
	}
	return frozen
}
