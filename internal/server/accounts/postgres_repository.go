package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/booklib/internal/common"
	"github.com/dmitrijs2005/booklib/internal/dbx"
	"github.com/dmitrijs2005/booklib/internal/server/catalog"
	"github.com/dmitrijs2005/booklib/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepository stores accounts in the accounts table and favorites in
// the favorites table, ordered by insertion.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenPostgres opens a pgx-backed *sql.DB and checks the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (r *PostgresRepository) Create(ctx context.Context, a Account) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (username, password)
			 VALUES ($1, $2)
			 ON CONFLICT (username) DO NOTHING`,
			a.Username, a.Password)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if n == 0 {
			return common.ErrAccountAlreadyExists
		}

		for _, id := range a.Favorites {
			if err := insertFavorite(ctx, tx, a.Username, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) Get(ctx context.Context, username string) (*Account, error) {
	return getAccount(ctx, r.db, username, false)
}

// Update locks the account row for the duration of the transaction, so
// concurrent updates of one account run one after another.
func (r *PostgresRepository) Update(ctx context.Context, username string, m Mutation) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		current, err := getAccount(ctx, tx, username, true)
		if err != nil {
			return err
		}

		next := current.clone()
		changed, err := m(&next)
		if err != nil || !changed {
			return err
		}

		for _, id := range current.Favorites {
			if !next.HasFavorite(id) {
				if _, err := tx.ExecContext(ctx,
					`DELETE FROM favorites WHERE username = $1 AND book_id = $2`,
					username, string(id)); err != nil {
					return fmt.Errorf("db error: %w", err)
				}
			}
		}
		for _, id := range next.Favorites {
			if !current.HasFavorite(id) {
				if err := insertFavorite(ctx, tx, username, id); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func getAccount(ctx context.Context, db dbx.DBTX, username string, forUpdate bool) (*Account, error) {
	query := `SELECT username, password FROM accounts WHERE username = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	a := &Account{}
	err := db.QueryRowContext(ctx, query, username).Scan(&a.Username, &a.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT book_id FROM favorites WHERE username = $1 ORDER BY position`,
		username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		a.Favorites = append(a.Favorites, catalog.BookID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func insertFavorite(ctx context.Context, tx dbx.DBTX, username string, id catalog.BookID) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO favorites (username, book_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		username, string(id))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
