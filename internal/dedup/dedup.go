package dedup

import (
	"context"
	"fmt"

	"grantsync/internal/store"
)

// Batch запоминает идентификаторы в пределах одного запуска.
// Живёт ровно один запуск; между запусками не переиспользуется.
type Batch struct {
	seen map[string]struct{}
}

func NewBatch() *Batch {
	return &Batch{seen: make(map[string]struct{})}
}

// Admit возвращает false, если непустой id уже встречался в этом запуске.
// Пустой id пропускается всегда: дедуплицировать не по чему.
func (b *Batch) Admit(id string) bool {
	if id == "" {
		return true
	}
	if _, ok := b.seen[id]; ok {
		return false
	}
	b.seen[id] = struct{}{}
	return true
}

func (b *Batch) Len() int { return len(b.seen) }

// Checker ищет идентификатор среди записей, созданных прошлыми запусками.
type Checker struct {
	store store.Store
}

func NewChecker(s store.Store) *Checker {
	return &Checker{store: s}
}

// IsDuplicate сообщает, есть ли уже запись с таким id.
// Пустой id всегда не дубликат, хранилище не запрашивается.
// При ошибке возвращается false вместе с store.ErrQuery: вызывающий решает, что делать,
// но по умолчанию запись лучше создать, чем потерять.
func (c *Checker) IsDuplicate(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	n, err := c.store.FindByIdentifier(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrQuery, err)
	}
	return n > 0, nil
}
