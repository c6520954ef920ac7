package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"grantsync/internal/models"
)

// Schema создаёт таблицу для записей, если её ещё нет.
const Schema = `
CREATE TABLE IF NOT EXISTS grant_records (
	id SERIAL PRIMARY KEY,
	identifier TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	jurisdiction TEXT NOT NULL,
	agency TEXT NOT NULL DEFAULT '',
	category TEXT,
	registration_date DATE,
	deadline TEXT,
	url TEXT,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS grant_records_identifier_idx ON grant_records (identifier);
`

// Database инкапсулирует пул соединений к PostgreSQL.
type Database struct {
	Pool *pgxpool.Pool
}

// NewDB создаёт новый пул соединений по connString и возвращает Database.
func NewDB(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %v", err)
	}
	return &Database{Pool: pool}, nil
}

// Close закрывает пул соединений.
func (db *Database) Close() {
	db.Pool.Close()
}

// EnsureSchema применяет Schema.
func (db *Database) EnsureSchema(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, Schema)
	return err
}

// FindByIdentifier возвращает количество записей с данным identifier.
func (db *Database) FindByIdentifier(ctx context.Context, id string) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM grant_records WHERE identifier = $1
    `, id).Scan(&n)
	return n, err
}

// Create сохраняет одну запись. Пустые опциональные поля пишутся как NULL.
// Уникальности по identifier нет: пустые идентификаторы допустимы и не дедуплицируются.
func (db *Database) Create(ctx context.Context, rec models.Record) error {
	_, err := db.Pool.Exec(ctx, `
        INSERT INTO grant_records
            (identifier, title, jurisdiction, agency, category, registration_date, deadline, url)
        VALUES ($1, $2, $3, $4,
            NULLIF($5::text, ''),
            NULLIF($6::text, '')::date,
            NULLIF($7::text, ''),
            NULLIF($8::text, ''))
    `,
		rec.Identifier,
		rec.Title,
		string(rec.Jurisdiction),
		rec.Agency,
		rec.Category,
		rec.RegistrationDate,
		rec.Deadline,
		rec.URL,
	)
	return err
}
