package store

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jomei/notionapi"

	"grantsync/internal/models"
)

// Названия свойств базы Notion.
const (
	PropTitle        = "제목"
	PropJurisdiction = "지역"
	PropAgency       = "공고기관"
	PropIdentifier   = "공고ID"
	PropRegistered   = "등록일"
	PropDeadline     = "접수마감일"
	PropURL          = "공고URL"
	PropCategory     = "지원분야"
)

// Notion хранит записи страницами в базе данных Notion.
type Notion struct {
	client     *notionapi.Client
	databaseID notionapi.DatabaseID
}

func NewNotion(token, databaseID string, timeout time.Duration) *Notion {
	return NewNotionWithClient(token, databaseID, &http.Client{Timeout: timeout})
}

// NewNotionWithClient позволяет подставить свой http.Client (транспорт, таймауты).
func NewNotionWithClient(token, databaseID string, httpClient *http.Client) *Notion {
	client := notionapi.NewClient(notionapi.Token(token), notionapi.WithHTTPClient(httpClient))
	return &Notion{client: client, databaseID: notionapi.DatabaseID(databaseID)}
}

func (n *Notion) FindByIdentifier(ctx context.Context, id string) (int, error) {
	resp, err := n.client.Database.Query(ctx, n.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: PropIdentifier,
			RichText: &notionapi.TextFilterCondition{Equals: id},
		},
		PageSize: 1,
	})
	if err != nil {
		return 0, err
	}
	return len(resp.Results), nil
}

func (n *Notion) Create(ctx context.Context, rec models.Record) error {
	_, err := n.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: n.databaseID,
		},
		Properties: Properties(rec),
	})
	return err
}

// Properties отображает Record на свойства страницы.
// Пустые опциональные поля не передаются.
func Properties(rec models.Record) notionapi.Properties {
	props := notionapi.Properties{
		PropTitle:        notionapi.TitleProperty{Title: richText(rec.Title)},
		PropJurisdiction: notionapi.SelectProperty{Select: notionapi.Option{Name: string(rec.Jurisdiction)}},
		PropAgency:       notionapi.RichTextProperty{RichText: richText(rec.Agency)},
		PropIdentifier:   notionapi.RichTextProperty{RichText: richText(rec.Identifier)},
	}

	if rec.RegistrationDate != "" {
		if _, err := time.Parse(dateLayout, rec.RegistrationDate); err == nil {
			props[PropRegistered] = DateOnlyProperty{Start: rec.RegistrationDate}
		}
	}
	if rec.Deadline != "" {
		props[PropDeadline] = notionapi.RichTextProperty{RichText: richText(rec.Deadline)}
	}
	if rec.URL != "" {
		props[PropURL] = notionapi.URLProperty{URL: rec.URL}
	}
	if rec.Category != "" {
		props[PropCategory] = notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{{Name: rec.Category}}}
	}
	return props
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}}}
}

const dateLayout = "2006-01-02"

// DateOnlyProperty — свойство типа date без времени: {"date":{"start":"2026-02-28"}}.
// notionapi.Date всегда сериализуется как RFC3339, и Notion сохраняет его как дату со временем.
type DateOnlyProperty struct {
	Start string
}

func (p DateOnlyProperty) GetID() string { return "" }

func (p DateOnlyProperty) GetType() notionapi.PropertyType { return notionapi.PropertyTypeDate }

type dateStart struct {
	Start string `json:"start"`
}

func (p DateOnlyProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]dateStart{"date": {Start: p.Start}})
}
