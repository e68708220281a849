package web

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Request bodies. Amounts decode from JSON numbers or strings.

type stockBody struct {
	ProductName   string          `json:"product_name" validate:"required,max=200"`
	Quantity      int             `json:"quantity" validate:"gte=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Supplier      string          `json:"supplier" validate:"max=200"`
	AddToCredit   bool            `json:"add_to_credit"`
}

type saleItemBody struct {
	Name        string          `json:"name" validate:"max=200"`
	ProductName string          `json:"product_name" validate:"required_without=Name,max=200"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

func (b saleItemBody) product() string {
	if b.ProductName != "" {
		return b.ProductName
	}
	return b.Name
}

type saleBody struct {
	Customer      string         `json:"customer" validate:"max=200"`
	CustomerName  string         `json:"customer_name" validate:"max=200"`
	CustomerPhone string         `json:"customer_phone" validate:"omitempty,max=32"`
	PaymentType   string         `json:"payment_type" validate:"omitempty,max=32"`
	SendWhatsApp  bool           `json:"send_whatsapp"`
	Items         []saleItemBody `json:"items" validate:"required,min=1,dive"`
}

func (b saleBody) customerName() string {
	if b.CustomerName != "" {
		return b.CustomerName
	}
	return b.Customer
}

type returnBody struct {
	ProductName  string `json:"product_name" validate:"required,max=200"`
	Quantity     int    `json:"quantity" validate:"gt=0"`
	Reason       string `json:"reason" validate:"max=500"`
	CustomerName string `json:"customer_name" validate:"max=200"`
}

type expenseBody struct {
	Category    string          `json:"category" validate:"required,max=100"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=500"`
}

type chatBody struct {
	Query string `json:"query" validate:"required,max=2000"`
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessages turns validator field errors into readable messages.
// Errors of any other kind come back as a single message.
func validationMessages(err error) []string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(ves))
	for _, fe := range ves {
		out = append(out, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// fieldPath drops the top-level struct name: "saleBody.items[0].quantity" → "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
