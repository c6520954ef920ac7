package models

import (
	"fmt"
	"strconv"
)

// Ключи полей ответа bizinfo.
const (
	FieldID           = "pblancId"
	FieldTitle        = "pblancNm"
	FieldAgency       = "jrsdInsttNm"
	FieldCategory     = "pldirSportRealmLclasCodeNm"
	FieldRegisteredAt = "creatPnttm"
	FieldPeriod       = "reqstBeginEndDe"
	FieldURL          = "pblancUrl"
)

// Jurisdiction — один из двух поддерживаемых регионов.
type Jurisdiction string

const (
	Seoul    Jurisdiction = "서울"
	Gyeonggi Jurisdiction = "경기"
)

// RawItem — нетипизированное объявление в том виде, в каком его вернул API.
type RawItem map[string]any

// String возвращает строковое значение поля key.
// Отсутствующее поле, null и нестроковые значения дают "" (числа форматируются).
func (r RawItem) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

func (r RawItem) ID() string     { return r.String(FieldID) }
func (r RawItem) Title() string  { return r.String(FieldTitle) }
func (r RawItem) Agency() string { return r.String(FieldAgency) }

// Candidate — объявление, прошедшее фильтр, с определённым регионом.
// Живёт только в рамках одного запуска.
type Candidate struct {
	Item         RawItem
	Jurisdiction Jurisdiction
}

// Record — каноническая запись, которая уходит в хранилище.
// Пустые опциональные поля в хранилище не записываются.
type Record struct {
	Identifier       string
	Title            string
	Jurisdiction     Jurisdiction
	Agency           string
	Category         string
	RegistrationDate string
	Deadline         string
	URL              string
}
