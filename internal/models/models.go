package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID          string    `gorm:"type:uuid;primaryKey"    json:"id"`
	Name        string    `gorm:"unique;not null"         json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID            string          `gorm:"type:uuid;primaryKey"                         json:"id"`
	Name          string          `gorm:"not null"                                     json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"                  json:"price"`
	StockQuantity int             `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
	CategoryID    *string         `gorm:"type:uuid;index"                              json:"category_id"`
	Category      *Category       `json:"category,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Order struct {
	ID               string          `gorm:"type:uuid;primaryKey"        json:"id"`
	CustomerName     string          `gorm:"not null"                    json:"customer_name"`
	CustomerEmail    string          `gorm:"not null"                    json:"customer_email"`
	CustomerPhone    string          `json:"customer_phone"`
	ShippingAddress  string          `gorm:"not null"                    json:"shipping_address"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status           OrderStatus     `gorm:"not null"                    json:"status"`
	PaymentStatus    string          `gorm:"not null"                    json:"payment_status"`
	PaymentReference string          `json:"payment_reference"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID"          json:"order_items,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Set only on the payload handed to the confirmation mailer.
	ConfirmationURL string `gorm:"-" json:"confirmation_url,omitempty"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is an immutable snapshot of one purchased line. Price is the
// price at order time, never re-read from the product.
type OrderItem struct {
	ID        string          `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderID   string          `gorm:"type:uuid;index;not null"    json:"order_id"`
	ProductID string          `gorm:"type:uuid;not null"          json:"product_id"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Product   *Product        `json:"product,omitempty"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type AdminUser struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null"      json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *AdminUser) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
