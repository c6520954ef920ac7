package store

import (
	"context"
	"errors"
	"fmt"

	"grantsync/internal/models"
)

var (
	ErrQuery  = errors.New("store query failed")
	ErrCreate = errors.New("store create failed")
)

// Store — внешнее хранилище записей (база Notion или таблица PostgreSQL).
// Проверка и последующее создание не транзакционны: два одновременных запуска
// могут оба не найти запись и оба её создать.
type Store interface {
	// FindByIdentifier возвращает число записей с данным идентификатором.
	FindByIdentifier(ctx context.Context, id string) (int, error)
	// Create создаёт одну запись.
	Create(ctx context.Context, rec models.Record) error
}

// Writer создаёт ровно одну запись на каждый вызов Write.
type Writer struct {
	store Store
}

func NewWriter(s Store) *Writer {
	return &Writer{store: s}
}

// Write возвращает заголовок созданной записи.
func (w *Writer) Write(ctx context.Context, rec models.Record) (string, error) {
	if err := w.store.Create(ctx, rec); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCreate, err)
	}
	return rec.Title, nil
}
