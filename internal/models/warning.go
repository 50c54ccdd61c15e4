package models

import (
	"sort"
	"time"
)

// Тип предупреждения, для которого используется «опасный» цвет.
const TypeAlert = "Alert"

// Классы цвета для отображения на фронте.
const (
	ColorClassDanger  = "alert-danger"
	ColorClassWarning = "alert-warning"
)

// Warning — предупреждение для путешественников по одной стране.
type Warning struct {
	// ID — идентификатор в хранилище; в идентичности предупреждения не участвует.
	ID string `json:"id,omitempty"`
	// CountryCode — ISO 3166-1 alpha-2 код страны.
	CountryCode string `json:"countryCode"`
	// Type — категория источника ("Alert"/"Warning").
	Type string `json:"type"`
	// StartDate — дата вступления в силу, полночь по локальному времени.
	StartDate time.Time `json:"startDate"`
	// Source — издатель предупреждения.
	Source string `json:"source"`
	// Link — ссылка на страницу с подробностями (может отсутствовать).
	Link string `json:"link,omitempty"`
	// Text — полный текст со страницы подробностей (может отсутствовать).
	Text string `json:"text,omitempty"`
	// TextOverview — краткое описание (может отсутствовать).
	TextOverview string `json:"textOverview,omitempty"`
	// ColorClass — класс важности для отображения, выводится из Type.
	ColorClass string `json:"colorClass"`
	// BatchUUID — идентификатор прогона, который последним создал/подтвердил запись.
	BatchUUID string `json:"batchUUID,omitempty"`
}

// WarningKey — естественный ключ предупреждения: по нему upsert решает,
// обновлять существующую запись или вставлять новую.
type WarningKey struct {
	CountryCode  string
	TextOverview string
	ColorClass   string
	Source       string
}

// NaturalKey возвращает естественный ключ предупреждения.
func (w Warning) NaturalKey() WarningKey {
	return WarningKey{
		CountryCode:  w.CountryCode,
		TextOverview: w.TextOverview,
		ColorClass:   w.ColorClass,
		Source:       w.Source,
	}
}

// ColorClassFor выводит класс цвета из типа предупреждения.
func ColorClassFor(warningType string) string {
	if warningType == TypeAlert {
		return ColorClassDanger
	}

	return ColorClassWarning
}

// WarningsByCountry — предупреждения, сгруппированные по коду страны.
// Это же формат артефакта warnings.json.
type WarningsByCountry map[string][]Warning

// Codes возвращает коды стран в отсортированном порядке.
func (m WarningsByCountry) Codes() []string {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	return codes
}

// Flatten разворачивает группировку в плоский список: по одной записи
// на пару (предупреждение, страна). Порядок: по коду страны, затем по порядку в группе.
func (m WarningsByCountry) Flatten() []Warning {
	var total int
	for _, ws := range m {
		total += len(ws)
	}

	out := make([]Warning, 0, total)
	for _, code := range m.Codes() {
		for _, w := range m[code] {
			w.CountryCode = code
			out = append(out, w)
		}
	}

	return out
}

// Add кладёт предупреждение в группу его страны.
func (m WarningsByCountry) Add(w Warning) {
	m[w.CountryCode] = append(m[w.CountryCode], w)
}

// GroupByCountry собирает плоский список в группировку по стране.
func GroupByCountry(ws []Warning) WarningsByCountry {
	out := make(WarningsByCountry)
	for _, w := range ws {
		out.Add(w)
	}

	return out
}

// Len — общее число записей во всех группах.
func (m WarningsByCountry) Len() int {
	var n int
	for _, ws := range m {
		n += len(ws)
	}

	return n
}
