// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/mediatekformation/mediatekformation/internal/config"
)

const defaultSQLitePath = "mediatekformation.db"

// MySQL builds the go-sql-driver DSN. Extras is a query string of driver
// parameters, e.g. "charset=utf8mb4&loc=Local".
func MySQL(db config.DB) (string, error) {
	params, err := url.ParseQuery(db.Extras)
	if err != nil {
		return "", errors.Wrap(err, "invalid DB.Extras")
	}

	source := "/"
	if len(params) > 0 {
		source += "?" + params.Encode()
	}

	c, err := mysql.ParseDSN(source)
	if err != nil {
		return "", errors.Wrap(err, "invalid DB.Extras")
	}

	c.User = db.User
	c.Passwd = db.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
	c.DBName = db.Name
	c.ParseTime = true

	return c.FormatDSN(), nil
}

// Postgres builds a postgres:// URL, understood by pgx and by the session
// storage. Extras is appended as query string, e.g. "sslmode=disable".
func Postgres(db config.DB) (string, error) {
	params, err := url.ParseQuery(db.Extras)
	if err != nil {
		return "", errors.Wrap(err, "invalid DB.Extras")
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:     "/" + db.Name,
		RawQuery: params.Encode(),
	}

	return u.String(), nil
}

// SQLite returns the database file, foreign keys enabled.
func SQLite(db config.DB) string {
	path := db.SQLitePath
	if path == "" {
		path = defaultSQLitePath
	}

	if path == ":memory:" {
		return "file::memory:?cache=shared&_pragma=foreign_keys(1)"
	}

	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path)
}

// Create builds the DSN of the configured engine.
func Create(cfg *config.Config) (string, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL, "":
		return MySQL(cfg.DB)
	case config.EnginePostgres:
		return Postgres(cfg.DB)
	case config.EngineSQLite:
		return SQLite(cfg.DB), nil
	default:
		return "", errors.Wrap(config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}
}
