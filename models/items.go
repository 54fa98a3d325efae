package models

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/golang/glog"

	e "github.com/microcosm-collective/itemcache/errors"
)

// ItemType is a priced item in the catalog. Price is in the minor currency
// unit.
type ItemType struct {
	ID    int64  `json:"id"`
	Name  string `json:"itemName"`
	Price int64  `json:"price"`
}

// ItemStore is the persistent store of items and the source of truth for the
// cache. A missing item is reported with http.StatusNotFound and an error
// matching errors.ErrNotFound.
type ItemStore interface {
	GetAll() ([]ItemType, int, error)
	GetByID(id int64) (ItemType, int, error)
	UpsertPrice(id int64, price int64) (ItemType, int, error)
}

// DefaultItems are inserted by SeedItems into an empty store
var DefaultItems = []ItemType{
	{Name: "MacBook Air 13", Price: 1590000},
	{Name: "MacBook Air 15", Price: 1890000},
	{Name: "MacBook Pro 14", Price: 2390000},
	{Name: "MacBook Pro 16", Price: 3690000},
}

// PostgresItemStore keeps items in the items table
type PostgresItemStore struct {
	db *sql.DB
}

// NewPostgresItemStore wraps an open connection pool
func NewPostgresItemStore(db *sql.DB) *PostgresItemStore {
	return &PostgresItemStore{db: db}
}

func storeError(err error, itemID int64, function string) error {
	return e.Wrap(err, itemID, function, e.StoreUnavailable, "database query failed")
}

func notFoundError(itemID int64, function string) error {
	return e.New(
		itemID,
		function,
		e.NotFound,
		fmt.Sprintf("item with ID %d not found", itemID),
	)
}

// EnsureItemSchema creates the items table if it does not exist
func (s *PostgresItemStore) EnsureItemSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS items (
    item_id   BIGSERIAL PRIMARY KEY,
    item_name TEXT NOT NULL,
    price     BIGINT NOT NULL
)`)
	if err != nil {
		return storeError(err, 0, "models.EnsureItemSchema")
	}

	return nil
}

// SeedItems inserts DefaultItems if the items table is empty, returning the
// number of rows inserted
func (s *PostgresItemStore) SeedItems() (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, storeError(err, 0, "models.SeedItems")
	}
	defer tx.Rollback()

	var total int64
	err = tx.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&total)
	if err != nil {
		return 0, storeError(err, 0, "models.SeedItems")
	}

	if total > 0 {
		return 0, nil
	}

	for _, m := range DefaultItems {
		_, err = tx.Exec(`
INSERT INTO items (
    item_name, price
) VALUES (
    $1, $2
)`,
			m.Name,
			m.Price,
		)
		if err != nil {
			return 0, storeError(err, 0, "models.SeedItems")
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, storeError(err, 0, "models.SeedItems")
	}

	glog.Infof("Inserted %d default items", len(DefaultItems))

	return len(DefaultItems), nil
}

// GetAll returns every item, ordered by ID
func (s *PostgresItemStore) GetAll() ([]ItemType, int, error) {
	rows, err := s.db.Query(`
SELECT item_id
      ,item_name
      ,price
  FROM items
 ORDER BY item_id`)
	if err != nil {
		return nil, http.StatusInternalServerError,
			storeError(err, 0, "models.GetAll")
	}
	defer rows.Close()

	ems := []ItemType{}
	for rows.Next() {
		m := ItemType{}
		err = rows.Scan(&m.ID, &m.Name, &m.Price)
		if err != nil {
			return nil, http.StatusInternalServerError,
				storeError(err, 0, "models.GetAll")
		}
		ems = append(ems, m)
	}

	err = rows.Err()
	if err != nil {
		return nil, http.StatusInternalServerError,
			storeError(err, 0, "models.GetAll")
	}

	return ems, http.StatusOK, nil
}

// GetByID returns a single item
func (s *PostgresItemStore) GetByID(id int64) (ItemType, int, error) {
	m := ItemType{}
	err := s.db.QueryRow(`
SELECT item_id
      ,item_name
      ,price
  FROM items
 WHERE item_id = $1`,
		id,
	).Scan(
		&m.ID,
		&m.Name,
		&m.Price,
	)
	if err == sql.ErrNoRows {
		return ItemType{}, http.StatusNotFound,
			notFoundError(id, "models.GetByID")
	} else if err != nil {
		return ItemType{}, http.StatusInternalServerError,
			storeError(err, id, "models.GetByID")
	}

	return m, http.StatusOK, nil
}

// UpsertPrice replaces the price of an existing item and returns the updated
// item
func (s *PostgresItemStore) UpsertPrice(id int64, price int64) (ItemType, int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return ItemType{}, http.StatusInternalServerError,
			storeError(err, id, "models.UpsertPrice")
	}
	defer tx.Rollback()

	m := ItemType{}
	err = tx.QueryRow(`
UPDATE items
   SET price = $2
 WHERE item_id = $1
RETURNING item_id, item_name, price`,
		id,
		price,
	).Scan(
		&m.ID,
		&m.Name,
		&m.Price,
	)
	if err == sql.ErrNoRows {
		return ItemType{}, http.StatusNotFound,
			notFoundError(id, "models.UpsertPrice")
	} else if err != nil {
		return ItemType{}, http.StatusInternalServerError,
			storeError(err, id, "models.UpsertPrice")
	}

	err = tx.Commit()
	if err != nil {
		return ItemType{}, http.StatusInternalServerError,
			storeError(err, id, "models.UpsertPrice")
	}

	return m, http.StatusOK, nil
}

// Ping checks that the database is reachable
func (s *PostgresItemStore) Ping() error {
	err := s.db.Ping()
	if err != nil {
		return storeError(err, 0, "models.Ping")
	}
	return nil
}
