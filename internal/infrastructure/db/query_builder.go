package db

import (
	"fmt"
	"strings"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
)

// clause is one conjunct of a WHERE predicate. column and op come from code,
// never from the request; only value is bound as a parameter.
type clause struct {
	column string
	op     string
	value  any
}

type selectQuery struct {
	table   string
	columns string
	where   []clause
	orderBy string
	limit   int
}

// build folds the clauses into a statement with $n placeholders, in clause order.
func (q selectQuery) build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("select ")
	sb.WriteString(q.columns)
	sb.WriteString(" from ")
	sb.WriteString(q.table)

	args := make([]any, 0, len(q.where))
	for i, c := range q.where {
		if i == 0 {
			sb.WriteString(" where ")
		} else {
			sb.WriteString(" and ")
		}
		args = append(args, c.value)
		fmt.Fprintf(&sb, "%s %s $%d", c.column, c.op, len(args))
	}
	if q.orderBy != "" {
		sb.WriteString(" order by ")
		sb.WriteString(q.orderBy)
	}
	if q.limit > 0 {
		fmt.Fprintf(&sb, " limit %d", q.limit)
	}
	return sb.String(), args
}

func inventoryClauses(f domain.InventoryFilter) []clause {
	var where []clause
	if f.Type != "" {
		where = append(where, clause{"type", "=", f.Type})
	}
	if f.Query != "" {
		where = append(where, clause{"card_name", "ilike", "%" + escapeLike(f.Query) + "%"})
	}
	if f.Category != "" {
		where = append(where, clause{"category", "=", f.Category})
	}
	if f.MinPrice != nil {
		where = append(where, clause{"price", ">=", *f.MinPrice})
	}
	if f.MaxPrice != nil {
		where = append(where, clause{"price", "<=", *f.MaxPrice})
	}
	return where
}

func inventoryOrderBy(s domain.InventorySort) string {
	switch s {
	case domain.SortPriceAsc:
		return "price asc"
	case domain.SortPriceDesc:
		return "price desc"
	default:
		return "created_at desc"
	}
}

func inventorySearchQuery(f domain.InventoryFilter) (string, []any) {
	return selectQuery{
		table:   "inventory",
		columns: inventoryColumns,
		where:   inventoryClauses(f),
		orderBy: inventoryOrderBy(f.Sort),
		limit:   domain.SearchLimit,
	}.build()
}

// escapeLike makes q match literally inside an ILIKE pattern.
func escapeLike(q string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
}
