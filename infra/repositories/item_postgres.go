package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/giovaniif/cart/domain/item"
	_ "github.com/lib/pq"
)

const selectCatalogItems = `SELECT id, description, stock FROM catalog_items ORDER BY id`

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// LoadCatalogFromPostgres reads the catalog seed once at startup. The
// returned items feed NewItemRepositoryFromItems; nothing is written back.
func LoadCatalogFromPostgres(ctx context.Context, databaseURL string) ([]item.Item, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, selectCatalogItems)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	return scanCatalogItems(rows)
}

func scanCatalogItems(rows rowScanner) ([]item.Item, error) {
	var items []item.Item
	for rows.Next() {
		var it item.Item
		if err := rows.Scan(&it.Id, &it.Description, &it.Stock); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		if it.Stock < 0 {
			return nil, fmt.Errorf("catalog item %d has negative stock %d", it.Id, it.Stock)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}
	return items, nil
}
