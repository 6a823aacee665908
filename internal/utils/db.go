package utils

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/lib/pq"
)

// BuildPostgresDSNFromEnv：PG_HOST/PG_PORT/PG_USER/PG_PASSWORD/PG_DB/PG_SSLMODE
func BuildPostgresDSNFromEnv() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     Getenv("PG_HOST", "localhost") + ":" + Getenv("PG_PORT", "5432"),
		Path:     "/" + Getenv("PG_DB", "rotational_map"),
		RawQuery: "sslmode=" + Getenv("PG_SSLMODE", "disable"),
	}
	user := Getenv("PG_USER", "postgres")
	if pass := Getenv("PG_PASSWORD", ""); pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	return u.String()
}

// OpenPostgresFromEnv：打开连接池；连接数由 PG_MAX_OPEN_CONNS / PG_MAX_IDLE_CONNS 控制
// 约束：sql.Open 不建立连接，调用方自行 Ping
func OpenPostgresFromEnv() (*sql.DB, error) {
	db, err := sql.Open("postgres", BuildPostgresDSNFromEnv())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(GetenvInt("PG_MAX_OPEN_CONNS", 10))
	db.SetMaxIdleConns(GetenvInt("PG_MAX_IDLE_CONNS", 5))
	return db, nil
}
