package domain

import (
	"fmt"
	"time"
)

const (
	DefaultItemType        = "SINGLE"
	DefaultCondition       = "NM"
	DefaultLanguage        = "EN"
	DefaultSetCode         = "N/A"
	DefaultCollectorNumber = "0"
	DefaultStock           = 1

	// SearchLimit caps every inventory listing.
	SearchLimit = 100

	sealedIDPrefix = "sealed-"
)

// InventoryItem is one sellable row: a catalog-backed single or a sealed product.
type InventoryItem struct {
	ID              int64     `json:"id"`
	ScryfallID      string    `json:"scryfall_id"`
	CardName        string    `json:"card_name"`
	SetCode         string    `json:"set_code"`
	CollectorNumber string    `json:"collector_number"`
	Price           int       `json:"price"`
	Stock           int       `json:"stock"`
	Condition       string    `json:"condition"`
	Language        string    `json:"language"`
	IsFoil          bool      `json:"is_foil"`
	ImageURL        *string   `json:"image_url"`
	Type            string    `json:"type"`
	Category        *string   `json:"category"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewInventoryItemInput carries already-parsed create fields. Nil pointers mean
// "not supplied" so defaults can be told apart from explicit values.
type NewInventoryItemInput struct {
	ScryfallID      string
	CardName        string
	SetCode         string
	CollectorNumber string
	Price           *int
	Stock           *int
	Condition       string
	Language        string
	IsFoil          bool
	ImageURL        string
	Type            string
	Category        string
}

// NewInventoryItem validates the input and applies the shop defaults.
func NewInventoryItem(in NewInventoryItemInput, now time.Time) (*InventoryItem, error) {
	if in.CardName == "" || in.Price == nil || *in.Price == 0 {
		return nil, InvalidRequest("card_name and price are required")
	}
	if *in.Price < 0 {
		return nil, InvalidRequest("price must be positive")
	}

	stock := DefaultStock
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return nil, InvalidRequest("stock cannot be negative")
	}

	item := &InventoryItem{
		ScryfallID:      in.ScryfallID,
		CardName:        in.CardName,
		SetCode:         orDefault(in.SetCode, DefaultSetCode),
		CollectorNumber: orDefault(in.CollectorNumber, DefaultCollectorNumber),
		Price:           *in.Price,
		Stock:           stock,
		Condition:       orDefault(in.Condition, DefaultCondition),
		Language:        orDefault(in.Language, DefaultLanguage),
		IsFoil:          in.IsFoil,
		Type:            orDefault(in.Type, DefaultItemType),
	}
	if item.ScryfallID == "" {
		item.ScryfallID = SealedID(now)
	}
	if in.ImageURL != "" {
		u := in.ImageURL
		item.ImageURL = &u
	}
	if in.Category != "" {
		c := in.Category
		item.Category = &c
	}
	return item, nil
}

// SealedID synthesizes the catalog id used for items without a catalog record.
func SealedID(now time.Time) string {
	return fmt.Sprintf("%s%d", sealedIDPrefix, now.UnixMilli())
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// InventorySort selects the listing order.
type InventorySort string

const (
	SortNewest    InventorySort = ""
	SortPriceAsc  InventorySort = "price_asc"
	SortPriceDesc InventorySort = "price_desc"
)

// InventoryFilter holds the optional listing filters; zero values impose no constraint.
type InventoryFilter struct {
	Query    string
	Type     string
	Category string
	MinPrice *int
	MaxPrice *int
	Sort     InventorySort
}
