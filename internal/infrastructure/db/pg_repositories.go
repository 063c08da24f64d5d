package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

const inventoryColumns = `id, scryfall_id, card_name, set_code, collector_number, price, stock,
        condition, language, is_foil, image_url, type, category, created_at`

const orderColumns = `id, customer_name, contact_info, items, total, status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInventoryItem(row rowScanner) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	var imageURL, category sql.NullString
	if err := row.Scan(
		&item.ID,
		&item.ScryfallID,
		&item.CardName,
		&item.SetCode,
		&item.CollectorNumber,
		&item.Price,
		&item.Stock,
		&item.Condition,
		&item.Language,
		&item.IsFoil,
		&imageURL,
		&item.Type,
		&category,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	if imageURL.Valid {
		item.ImageURL = &imageURL.String
	}
	if category.Valid {
		item.Category = &category.String
	}
	return &item, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var items []byte
	var status string
	if err := row.Scan(
		&o.ID,
		&o.CustomerName,
		&o.ContactInfo,
		&items,
		&o.Total,
		&status,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %d: %w", o.ID, err)
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

// Inventory

type PgInventoryRepository struct {
	q Querier
}

func NewPgInventoryRepository(g *Gateway) *PgInventoryRepository {
	return &PgInventoryRepository{q: g.Pool()}
}

func (r *PgInventoryRepository) Search(
	ctx context.Context,
	filter domain.InventoryFilter,
) ([]domain.InventoryItem, error) {
	query, args := inventorySearchQuery(filter)
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search inventory: %w", err)
	}
	defer rows.Close()

	result := make([]domain.InventoryItem, 0)
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search inventory: %w", err)
	}
	return result, nil
}

func (r *PgInventoryRepository) Insert(ctx context.Context, item *domain.InventoryItem) error {
	q := `
        insert into inventory
        (scryfall_id, card_name, set_code, collector_number, price, stock,
         condition, language, is_foil, image_url, type, category)
        values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        returning ` + inventoryColumns
	row := r.q.QueryRowContext(
		ctx, q,
		item.ScryfallID,
		item.CardName,
		item.SetCode,
		item.CollectorNumber,
		item.Price,
		item.Stock,
		item.Condition,
		item.Language,
		item.IsFoil,
		item.ImageURL,
		item.Type,
		item.Category,
	)
	stored, err := scanInventoryItem(row)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}
	*item = *stored
	return nil
}

// Orders

type PgOrderRepository struct {
	gw *Gateway
}

func NewPgOrderRepository(g *Gateway) *PgOrderRepository {
	return &PgOrderRepository{gw: g}
}

func (r *PgOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.gw.Query(ctx, `select `+orderColumns+` from orders order by created_at desc, id desc`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return result, nil
}

func (r *PgOrderRepository) WithinTx(
	ctx context.Context,
	fn func(ctx context.Context, tx domain.OrderTx) error,
) error {
	return r.gw.InTx(ctx, func(q Querier) error {
		return fn(ctx, &pgOrderTx{q: q})
	})
}

type pgOrderTx struct {
	q Querier
}

func (t *pgOrderTx) LockInventoryItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	row := t.q.QueryRowContext(ctx, `select `+inventoryColumns+` from inventory where id = $1 for update`, id)
	item, err := scanInventoryItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock inventory %d: %w", id, err)
	}
	return item, nil
}

func (t *pgOrderTx) DecrementStock(ctx context.Context, id int64, quantity int) error {
	if _, err := t.q.ExecContext(ctx, `update inventory set stock = stock - $1 where id = $2`, quantity, id); err != nil {
		return fmt.Errorf("decrement stock %d: %w", id, err)
	}
	return nil
}

func (t *pgOrderTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	q := `
        insert into orders (customer_name, contact_info, items, total)
        values ($1, $2, $3::jsonb, $4::numeric)
        returning ` + orderColumns
	stored, err := scanOrder(t.q.QueryRowContext(ctx, q, o.CustomerName, o.ContactInfo, string(items), o.Total))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	*o = *stored
	return nil
}

func (t *pgOrderTx) UpdateOrderStatus(
	ctx context.Context,
	id int64,
	status domain.OrderStatus,
) (*domain.Order, error) {
	q := `update orders set status = $1 where id = $2 returning ` + orderColumns
	o, err := scanOrder(t.q.QueryRowContext(ctx, q, string(status), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	return o, nil
}

func (t *pgOrderTx) EnqueueOutbox(ctx context.Context, msg domain.OutboxMessage) error {
	return insertOutbox(ctx, t.q, msg)
}
