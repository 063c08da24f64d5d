package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

// Catalog

type bulkSearchRequest struct {
	Identifiers json.RawMessage `json:"identifiers"`
}

// Handler GET /api/search?q=
func (s *Server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	cards, err := s.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err, "catalog search failed", false)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// Handler POST /api/search-bulk
func (s *Server) handleCatalogBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err, "", false)
		return
	}

	var ids []domain.CardIdentifier
	raw := bytes.TrimSpace(req.Identifiers)
	if len(raw) == 0 || raw[0] != '[' || json.Unmarshal(raw, &ids) != nil {
		s.writeError(w, domain.InvalidRequest("identifiers must be a list"), "", false)
		return
	}

	cards, err := s.catalog.Collection(r.Context(), ids)
	if err != nil {
		s.writeError(w, err, "batch lookup failed", false)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// Inventory

type createInventoryRequest struct {
	ScryfallID      string          `json:"scryfall_id"`
	CardName        string          `json:"card_name"`
	SetCode         string          `json:"set_code"`
	CollectorNumber string          `json:"collector_number"`
	Price           json.RawMessage `json:"price"`
	Stock           json.RawMessage `json:"stock"`
	Condition       string          `json:"condition"`
	Language        string          `json:"language"`
	IsFoil          bool            `json:"is_foil"`
	ImageURL        string          `json:"image_url"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
}

// Handler GET /api/inventory
func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.InventoryFilter{
		Query:    query.Get("q"),
		Type:     query.Get("type"),
		Category: query.Get("category"),
		Sort:     domain.InventorySort(query.Get("sort")),
	}

	var err error
	if filter.MinPrice, err = queryInt(query.Get("min_price"), "min_price"); err != nil {
		s.writeError(w, err, "", false)
		return
	}
	if filter.MaxPrice, err = queryInt(query.Get("max_price"), "max_price"); err != nil {
		s.writeError(w, err, "", false)
		return
	}

	items, err := s.inventory.Search(r.Context(), filter)
	if err != nil {
		s.writeError(w, err, "DB Error", false)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Handler POST /api/inventory
func (s *Server) handleCreateInventory(w http.ResponseWriter, r *http.Request) {
	var req createInventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err, "", false)
		return
	}

	price, err := jsonInt(req.Price, "price")
	if err != nil {
		s.writeError(w, err, "", false)
		return
	}
	stock, err := jsonInt(req.Stock, "stock")
	if err != nil {
		s.writeError(w, err, "", false)
		return
	}

	item, err := s.inventory.Create(r.Context(), domain.NewInventoryItemInput{
		ScryfallID:      req.ScryfallID,
		CardName:        req.CardName,
		SetCode:         req.SetCode,
		CollectorNumber: req.CollectorNumber,
		Price:           price,
		Stock:           stock,
		Condition:       req.Condition,
		Language:        req.Language,
		IsFoil:          req.IsFoil,
		ImageURL:        req.ImageURL,
		Type:            req.Type,
		Category:        req.Category,
	})
	if err != nil {
		s.writeError(w, err, "could not save inventory item", false)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// queryInt parses an optional query parameter that must fit the price column.
func queryInt(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, domain.InvalidRequest(name + " must be a 32-bit integer")
	}
	v := int(n)
	return &v, nil
}

// jsonInt reads an optional integer field sent as a JSON number or a numeric
// string. Fractions truncate toward zero; absent, null and "" mean not supplied.
func jsonInt(raw json.RawMessage, name string) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, domain.InvalidRequest(name + " must be numeric")
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, nil
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil, domain.InvalidRequest(name + " must be numeric")
	}
	n := int(math.Trunc(f))
	return &n, nil
}

// Orders

type placeOrderRequest struct {
	CustomerName string             `json:"customer_name"`
	ContactInfo  string             `json:"contact_info"`
	Items        []domain.OrderLine `json:"items"`
	Total        *decimal.Decimal   `json:"total"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Handler POST /api/orders
func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err, "", true)
		return
	}

	order, err := s.orders.PlaceOrder(r.Context(), domain.PlaceOrderCommand{
		CustomerName:   req.CustomerName,
		ContactInfo:    req.ContactInfo,
		Items:          req.Items,
		Total:          req.Total,
		IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
	})
	if err != nil {
		s.writeError(w, err, "could not place order", true)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// Handler GET /api/orders
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListOrders(r.Context())
	if err != nil {
		s.writeError(w, err, "could not load orders", false)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Handler PATCH /api/orders/{id}/status
func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err, "", false)
		return
	}
	if _, err := domain.ParseOrderStatus(req.Status); err != nil {
		s.writeError(w, err, "", false)
		return
	}
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, domain.NotFound("order not found"), "", false)
		return
	}

	order, err := s.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, err, "database error", false)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Order: order})
}
