package orders

import (
	"time"

	"github.com/Ebtehal15/turkey-items-v2/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ItemInput is one submitted line. It is copied verbatim into the frozen
// snapshot; the catalog is not consulted at submission time.
type ItemInput struct {
	ClassID          int64            `json:"classId"`
	Quantity         int              `json:"quantity"`
	SpecialID        string           `json:"specialId"`
	Quality          string           `json:"quality"`
	ClassName        string           `json:"className"`
	ClassNameArabic  string           `json:"classNameArabic"`
	ClassNameEnglish string           `json:"classNameEnglish"`
	ClassPrice       *decimal.Decimal `json:"classPrice"`
}

// CustomerInput carries the customer block of an order submission.
type CustomerInput struct {
	FullName    string  `json:"fullName"`
	Company     *string `json:"company"`
	Phone       *string `json:"phone"`
	SalesPerson *string `json:"salesPerson"`
	Notes       *string `json:"notes"`
}

// SubmitInput is a full order submission payload.
type SubmitInput struct {
	OrderID          string          `json:"orderId"`
	Customer         CustomerInput   `json:"customerInfo"`
	Items            []ItemInput     `json:"items"`
	KnownTotal       decimal.Decimal `json:"knownTotal"`
	TotalItems       int             `json:"totalItems"`
	HasUnknownPrices bool            `json:"hasUnknownPrices"`
	Language         *string         `json:"language"`
}

// OrderDTO is the API projection of a stored order.
type OrderDTO struct {
	ID               int64              `json:"id"`
	OrderID          string             `json:"orderId"`
	FullName         string             `json:"fullName"`
	Company          *string            `json:"company"`
	Phone            *string            `json:"phone"`
	SalesPerson      *string            `json:"salesPerson"`
	Notes            *string            `json:"notes"`
	Items            []models.OrderItem `json:"items"`
	KnownTotal       decimal.Decimal    `json:"knownTotal"`
	TotalItems       int                `json:"totalItems"`
	HasUnknownPrices bool               `json:"hasUnknownPrices"`
	Language         *string            `json:"language"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// NewOrderDTO maps a stored order onto the API projection.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	return &OrderDTO{
		ID:               order.ID,
		OrderID:          order.OrderID,
		FullName:         order.FullName,
		Company:          order.Company,
		Phone:            order.Phone,
		SalesPerson:      order.SalesPerson,
		Notes:            order.Notes,
		Items:            order.Items,
		KnownTotal:       order.KnownTotal,
		TotalItems:       order.TotalItems,
		HasUnknownPrices: order.HasUnknownPrices,
		Language:         order.Language,
		CreatedAt:        order.CreatedAt,
	}
}

// NewOrderDTOs maps a slice of stored orders.
func NewOrderDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewOrderDTO(&rows[i]))
	}
	return out
}
