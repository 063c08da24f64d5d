package db

import (
	"context"
	"fmt"
)

var schema = []string{
	`create table if not exists inventory (
        id               bigserial primary key,
        scryfall_id      text not null,
        card_name        text not null,
        set_code         text not null default 'N/A',
        collector_number text not null default '0',
        price            integer not null check (price > 0),
        stock            integer not null default 1 check (stock >= 0),
        condition        text not null default 'NM',
        language         text not null default 'EN',
        is_foil          boolean not null default false,
        image_url        text,
        type             text not null default 'SINGLE',
        category         text,
        created_at       timestamptz not null default now()
    )`,
	`create index if not exists idx_inventory_created_at on inventory (created_at desc)`,
	`create table if not exists orders (
        id            bigserial primary key,
        customer_name text not null,
        contact_info  text not null default '',
        items         jsonb not null,
        total         numeric(12,2) not null,
        status        text not null default 'PENDING'
                      check (status in ('PENDING','IN_PROGRESS','READY','COMPLETED','REJECTED')),
        created_at    timestamptz not null default now()
    )`,
	`create table if not exists outbox_messages (
        id               uuid primary key,
        type             text not null,
        payload_json     text not null,
        occurred_at_utc  timestamptz not null,
        retry_count      integer not null default 0,
        processed_at_utc timestamptz
    )`,
	`create index if not exists idx_outbox_pending on outbox_messages (occurred_at_utc) where processed_at_utc is null`,
}

// Migrate creates the tables the service needs. It is idempotent.
func Migrate(ctx context.Context, g *Gateway) error {
	for i, stmt := range schema {
		if _, err := g.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}
