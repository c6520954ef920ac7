package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/require"

	"grantsync/internal/models"
	"grantsync/internal/store"
)

type stubStore struct {
	created []models.Record
	err     error
}

func (s *stubStore) FindByIdentifier(ctx context.Context, id string) (int, error) {
	return 0, nil
}

func (s *stubStore) Create(ctx context.Context, rec models.Record) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, rec)
	return nil
}

func TestWriter(t *testing.T) {
	t.Run("success returns title", func(t *testing.T) {
		s := &stubStore{}
		title, err := store.NewWriter(s).Write(context.Background(), models.Record{Title: "20260301_공고"})
		require.NoError(t, err)
		require.Equal(t, "20260301_공고", title)
		require.Len(t, s.created, 1)
	})

	t.Run("failure is tagged", func(t *testing.T) {
		s := &stubStore{err: errors.New("boom")}
		title, err := store.NewWriter(s).Write(context.Background(), models.Record{Title: "x"})
		require.ErrorIs(t, err, store.ErrCreate)
		require.Empty(t, title)
	})
}

func TestProperties_Full(t *testing.T) {
	props := store.Properties(models.Record{
		Identifier:       "PBLN_1",
		Title:            "20260301_공고",
		Jurisdiction:     models.Seoul,
		Agency:           "서울특별시청",
		Category:         "기술",
		RegistrationDate: "2026-02-28",
		Deadline:         "2026-03-31",
		URL:              "https://www.bizinfo.go.kr/pblanc/view/1",
	})

	require.Len(t, props, 8)

	title := props[store.PropTitle].(notionapi.TitleProperty)
	require.Equal(t, "20260301_공고", title.Title[0].Text.Content)

	sel := props[store.PropJurisdiction].(notionapi.SelectProperty)
	require.Equal(t, "서울", sel.Select.Name)

	id := props[store.PropIdentifier].(notionapi.RichTextProperty)
	require.Equal(t, "PBLN_1", id.RichText[0].Text.Content)

	date := props[store.PropRegistered].(store.DateOnlyProperty)
	require.Equal(t, "2026-02-28", date.Start)

	deadline := props[store.PropDeadline].(notionapi.RichTextProperty)
	require.Equal(t, "2026-03-31", deadline.RichText[0].Text.Content)

	url := props[store.PropURL].(notionapi.URLProperty)
	require.Equal(t, "https://www.bizinfo.go.kr/pblanc/view/1", url.URL)

	cat := props[store.PropCategory].(notionapi.MultiSelectProperty)
	require.Len(t, cat.MultiSelect, 1)
	require.Equal(t, "기술", cat.MultiSelect[0].Name)
}

func TestProperties_OptionalFieldsOmitted(t *testing.T) {
	props := store.Properties(models.Record{
		Title:        "20260301_제목없음",
		Jurisdiction: models.Gyeonggi,
		Agency:       "경기도청",
	})

	require.Len(t, props, 4)
	for _, key := range []string{store.PropRegistered, store.PropDeadline, store.PropURL, store.PropCategory} {
		require.NotContains(t, props, key)
	}
}

func TestProperties_RegistrationDateIsDateOnly(t *testing.T) {
	props := store.Properties(models.Record{
		Title:            "20260301_공고",
		Jurisdiction:     models.Seoul,
		RegistrationDate: "2026-02-28",
	})

	body, err := json.Marshal(props)
	require.NoError(t, err)
	require.Contains(t, string(body), `"등록일":{"date":{"start":"2026-02-28"}}`)
}

func TestProperties_MalformedRegistrationDateOmitted(t *testing.T) {
	props := store.Properties(models.Record{Title: "x", RegistrationDate: "2026-02-30"})
	require.NotContains(t, props, store.PropRegistered)
}
