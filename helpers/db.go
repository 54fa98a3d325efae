package helpers

import (
	"database/sql"
	"fmt"

	// Registers the "postgres" driver
	_ "github.com/lib/pq"
)

// DBConfig stores the connection information used by InitDBConnection to
// establish a connection to the database
type DBConfig struct {
	Host     string
	Port     int64
	Database string
	Username string
	Password string
}

// DataSourceName is the lib/pq connection string for the config
func (c DBConfig) DataSourceName() string {
	return fmt.Sprintf(
		"user=%s dbname=%s host=%s port=%d password=%s sslmode=%s",
		c.Username,
		c.Database,
		c.Host,
		c.Port,
		c.Password,
		"disable",
	)
}

// InitDBConnection opens the connection pool and checks that the database is
// reachable
func InitDBConnection(c DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %v", err)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %v", err)
	}

	// PostgreSQL max is 100, we need to be below that limit as there may be
	// connections from monitoring apps, migrations in process or active
	// debugging by staff
	db.SetMaxOpenConns(90)

	return db, nil
}
