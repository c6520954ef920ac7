package normalize

import (
	"regexp"
	"strings"
	"time"

	"grantsync/internal/models"
)

// UntitledPlaceholder подставляется, когда у объявления нет названия.
const UntitledPlaceholder = "제목없음"

var (
	datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	dateExact  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Title формирует заголовок записи вида "20260301_<название>".
func Title(today time.Time, raw string) string {
	if raw == "" {
		raw = UntitledPlaceholder
	}
	return today.Format("20060102") + "_" + raw
}

// RegistrationDate возвращает YYYY-MM-DD из creatPnttm или "", если формат не распознан.
func RegistrationDate(raw string) string {
	if !datePrefix.MatchString(raw) {
		return ""
	}
	return raw[:10]
}

// Deadline извлекает срок приёма заявок из reqstBeginEndDe.
//
//	"2026-02-13 ~ 2026-03-19"    → "2026-03-19"
//	"2026-02-13 ~ 예산 소진시까지" → вся строка
//	"상시접수"                    → "상시접수"
func Deadline(raw string) string {
	period := strings.TrimSpace(raw)
	idx := strings.LastIndex(period, "~")
	if idx < 0 {
		return period
	}
	end := strings.TrimSpace(period[idx+1:])
	if dateExact.MatchString(end) {
		return end
	}
	return period
}

// ResolveURL дополняет относительный путь хостом источника.
func ResolveURL(baseURL, raw string) string {
	if strings.HasPrefix(raw, "/") {
		return strings.TrimRight(baseURL, "/") + raw
	}
	return raw
}

// Normalizer строит Record из кандидата. Ошибок не бывает: всё, что не удалось
// разобрать, либо заменяется заглушкой, либо опускается.
type Normalizer struct {
	BaseURL string
}

func New(baseURL string) *Normalizer {
	return &Normalizer{BaseURL: baseURL}
}

func (n *Normalizer) Record(c models.Candidate, today time.Time) models.Record {
	item := c.Item
	return models.Record{
		Identifier:       item.ID(),
		Title:            Title(today, item.Title()),
		Jurisdiction:     c.Jurisdiction,
		Agency:           item.Agency(),
		Category:         item.String(models.FieldCategory),
		RegistrationDate: RegistrationDate(item.String(models.FieldRegisteredAt)),
		Deadline:         Deadline(item.String(models.FieldPeriod)),
		URL:              ResolveURL(n.BaseURL, item.String(models.FieldURL)),
	}
}
