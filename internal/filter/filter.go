package filter

import (
	"strings"
	"time"

	"grantsync/internal/models"
)

const dayLayout = "20060102"

// Region связывает код региона в API с меткой и токеном для поиска в названии ведомства.
type Region struct {
	Code         string
	Jurisdiction models.Jurisdiction
	Token        string
}

// Regions задаёт порядок запросов: сначала Сеул, затем Кёнгидо.
var Regions = []Region{
	{Code: "11", Jurisdiction: models.Seoul, Token: "서울"},
	{Code: "41", Jurisdiction: models.Gyeonggi, Token: "경기도"},
}

// ValidDates возвращает даты YYYYMMDD от today до today-collectDays включительно.
func ValidDates(today time.Time, collectDays int) map[string]struct{} {
	dates := make(map[string]struct{}, collectDays+1)
	for i := 0; i <= collectDays; i++ {
		dates[today.AddDate(0, 0, -i).Format(dayLayout)] = struct{}{}
	}
	return dates
}

// RegistrationDay извлекает день регистрации из creatPnttm:
// "2026-02-26 15:21:29" → "20260226".
func RegistrationDay(item models.RawItem) string {
	day := strings.NewReplacer("-", "", " ", "").Replace(item.String(models.FieldRegisteredAt))
	if len(day) > 8 {
		day = day[:8]
	}
	return day
}

// ResolveJurisdiction определяет регион по подстроке в названии ведомства.
// Сеул проверяется первым.
func ResolveJurisdiction(agency string) (models.Jurisdiction, bool) {
	for _, r := range Regions {
		if strings.Contains(agency, r.Token) {
			return r.Jurisdiction, true
		}
	}
	return "", false
}

// Filter отсекает объявления вне окна дат и вне поддерживаемых регионов.
type Filter struct {
	valid map[string]struct{}
}

func NewFilter(today time.Time, collectDays int) *Filter {
	return &Filter{valid: ValidDates(today, collectDays)}
}

// InWindow сообщает, попадает ли день регистрации объявления в окно.
func (f *Filter) InWindow(item models.RawItem) bool {
	_, ok := f.valid[RegistrationDay(item)]
	return ok
}

// Apply возвращает кандидатов в исходном порядке.
func (f *Filter) Apply(items []models.RawItem) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(items))
	for _, item := range items {
		if !f.InWindow(item) {
			continue
		}
		juris, ok := ResolveJurisdiction(item.Agency())
		if !ok {
			continue
		}
		candidates = append(candidates, models.Candidate{Item: item, Jurisdiction: juris})
	}
	return candidates
}
