// Package database loads the order table from MariaDB/MySQL or PostgreSQL
// instead of the CSV export.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/schollz/progressbar/v3"

	"ulabox-report/pkg/loader"
	"ulabox-report/pkg/logging"
	"ulabox-report/pkg/models"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Open accepts mariadb:// and mysql:// URLs (converted for the MySQL driver),
// postgres:// and postgresql:// URLs (pgx), or a native MySQL DSN as-is.
// It returns the DSN actually handed to the driver.
func Open(dsn string) (*sql.DB, string, error) {
	driver, driverDSN, err := toDriverDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(driver, driverDSN)
	if err != nil {
		return nil, "", err
	}
	// one sequential scan per run
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, driverDSN, nil
}

func toDriverDSN(dsn string) (string, string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx", dsn, nil
	}
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return "", "", err
	}
	return "mysql", mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// LoadOrders reads every row of tableName into a Table.
// The column set is checked against models.RequiredColumns before any row is parsed,
// and a bad row aborts the load, exactly like the CSV loader.
func LoadOrders(ctx context.Context, db *sql.DB, tableName string, progress bool) (*models.Table, error) {
	if !tableNameRe.MatchString(tableName) {
		return nil, &models.DataLoadError{Source: tableName, Err: fmt.Errorf("invalid table name")}
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+tableName)
	if err != nil {
		return nil, &models.DataLoadError{Source: tableName, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &models.DataLoadError{Source: tableName, Err: err}
	}
	parser, err := loader.NewRowParser(tableName, cols)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.Default(-1, "reading "+tableName)
		defer bar.Close()
	}

	raw := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}
	fields := make([]string, len(cols))

	var orders []models.Order
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, &models.DataLoadError{Source: tableName, Line: len(orders) + 1, Err: err}
		}
		for i, v := range raw {
			fields[i] = v.String
		}
		o, err := parser.Parse(fields)
		if err != nil {
			return nil, &models.DataLoadError{Source: tableName, Line: len(orders) + 1, Err: err}
		}
		orders = append(orders, o)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &models.DataLoadError{Source: tableName, Err: err}
	}

	logging.Info().Str("table", tableName).Int("orders", len(orders)).Msg("Orders loaded")
	return models.NewTable(tableName, orders), nil
}
