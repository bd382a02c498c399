package request

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// LatepointOrderForm is the booking platform's order webhook shape. The
// form encodes line items as indexed nested keys like
// order_items[0][item_data][name].
type LatepointOrderForm struct {
	ExternalID        string
	ConfirmationCode  string
	Status            string
	FulfillmentStatus string
	PaymentStatus     string
	Subtotal          string
	Total             string
	Customer          LatepointOrderCustomer
	Items             []LatepointOrderItem
}

// LatepointOrderCustomer is the embedded customer block of an order form
type LatepointOrderCustomer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// LatepointOrderItem is one flattened order_items[i][item_data] block
type LatepointOrderItem struct {
	ItemID   string
	Name     string
	Price    string
	Total    string
	Quantity string
	Duration string
	AddOns   map[string]string
}

var orderItemKey = regexp.MustCompile(`^order_items\[(\d+)\]\[item_data\]\[([a-z_]+)\]$`)
var orderItemAddOnKey = regexp.MustCompile(`^order_items\[(\d+)\]\[add_ons\]\[([a-z_]+)\]$`)

// ParseLatepointOrderForm flattens the indexed form keys into a structured
// order. Item indexes may be sparse; ordering follows the index.
func ParseLatepointOrderForm(values url.Values) *LatepointOrderForm {
	form := &LatepointOrderForm{
		ExternalID:        values.Get("id"),
		ConfirmationCode:  values.Get("confirmation_code"),
		Status:            values.Get("status"),
		FulfillmentStatus: values.Get("fulfillment_status"),
		PaymentStatus:     values.Get("payment_status"),
		Subtotal:          values.Get("subtotal"),
		Total:             values.Get("total"),
		Customer: LatepointOrderCustomer{
			ID:        values.Get("customer[id]"),
			FirstName: values.Get("customer[first_name]"),
			LastName:  values.Get("customer[last_name]"),
			Email:     values.Get("customer[email]"),
			Phone:     values.Get("customer[phone]"),
		},
	}

	items := make(map[int]*LatepointOrderItem)
	for key := range values {
		if m := orderItemKey.FindStringSubmatch(key); m != nil {
			idx, _ := strconv.Atoi(m[1])
			item := items[idx]
			if item == nil {
				item = &LatepointOrderItem{}
				items[idx] = item
			}
			value := values.Get(key)
			switch m[2] {
			case "id":
				item.ItemID = value
			case "name":
				item.Name = value
			case "price":
				item.Price = value
			case "total":
				item.Total = value
			case "quantity":
				item.Quantity = value
			case "duration":
				item.Duration = value
			}
			continue
		}
		if m := orderItemAddOnKey.FindStringSubmatch(key); m != nil {
			idx, _ := strconv.Atoi(m[1])
			item := items[idx]
			if item == nil {
				item = &LatepointOrderItem{}
				items[idx] = item
			}
			if item.AddOns == nil {
				item.AddOns = make(map[string]string)
			}
			item.AddOns[m[2]] = values.Get(key)
		}
	}

	indexes := make([]int, 0, len(items))
	for idx := range items {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		form.Items = append(form.Items, *items[idx])
	}
	return form
}

// Validate checks the keys the upsert cannot proceed without
func (f *LatepointOrderForm) Validate() (bool, string) {
	var missing []string
	if f.ExternalID == "" {
		missing = append(missing, "id")
	}
	if f.ConfirmationCode == "" {
		missing = append(missing, "confirmation_code")
	}
	if f.Customer.ID == "" {
		missing = append(missing, "customer[id]")
	}
	if len(missing) > 0 {
		return false, "Missing required fields: " + strings.Join(missing, ", ")
	}
	return true, ""
}

// SquareOrderEnvelope is the outer webhook event wrapper around an order
type SquareOrderEnvelope struct {
	EventID string `json:"event_id"`
	Type    string `json:"type"`
	Data    struct {
		Object struct {
			Order SquareOrderPayload `json:"order"`
		} `json:"object"`
	} `json:"data"`
}

// Money is the payment platform's amount shape, already in minor units
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// SquareOrderPayload is the payment platform's order webhook shape
type SquareOrderPayload struct {
	ID            string           `json:"id"`
	CustomerID    string           `json:"customer_id"`
	Status        string           `json:"status"`
	ReceiptNumber string           `json:"receipt_number"`
	AmountMoney   Money            `json:"amount_money"`
	ApprovedMoney Money            `json:"approved_money"`
	LineItems     []SquareLineItem `json:"line_items"`
	Tenders       []SquareTender   `json:"tenders"`
}

// SquareLineItem is one purchased unit in a payment-platform order
type SquareLineItem struct {
	UID             string `json:"uid"`
	CatalogObjectID string `json:"catalog_object_id"`
	Name            string `json:"name"`
	Quantity        string `json:"quantity"` // Square encodes quantity as a string
	BasePriceMoney  Money  `json:"base_price_money"`
	TotalMoney      Money  `json:"total_money"`
}

// SquareTender is a payment event attached to an order
type SquareTender struct {
	ID          string             `json:"id"`
	AmountMoney Money              `json:"amount_money"`
	Type        string             `json:"type"`
	CardDetails *SquareCardDetails `json:"card_details,omitempty"`
}

// SquareCardDetails carries optional card metadata
type SquareCardDetails struct {
	Status string `json:"status"`
	Card   struct {
		CardBrand string `json:"card_brand"`
		Last4     string `json:"last_4"`
		ExpMonth  int    `json:"exp_month"`
		ExpYear   int    `json:"exp_year"`
	} `json:"card"`
}

// Validate checks the keys the upsert cannot proceed without
func (p *SquareOrderPayload) Validate() (bool, string) {
	var missing []string
	if p.ID == "" {
		missing = append(missing, "id")
	}
	if p.CustomerID == "" {
		missing = append(missing, "customer_id")
	}
	if p.ReceiptNumber == "" {
		missing = append(missing, "receipt_number")
	}
	if len(missing) > 0 {
		return false, "Missing required fields: " + strings.Join(missing, ", ")
	}
	return true, ""
}
