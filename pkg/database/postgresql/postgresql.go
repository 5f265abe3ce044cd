package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectDB opens the shared connection pool. The pool is the single point of
// coordination between request handlers; everything mutable lives behind it.
func ConnectDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}

	return dbpool, nil
}
