package scraper

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Позиции колонок в строке таблицы источника.
const (
	colType = iota
	colDate
	colCountry
	minColumns
)

// travelMarker — слово, с которого начинается суффикс "Travel Warning/Alert".
const travelMarker = "travel"

// row — разобранная строка индексной таблицы.
type row struct {
	typ       string
	startDate time.Time
	dateRaw   string
	country   string
	link      string
}

// parseRows разбирает все строки таблицы. Строки, где меньше трёх ячеек
// (заголовки, разделители), отбрасываются сразу.
func parseRows(doc *goquery.Document, base *url.URL, layout string) []row {
	var rows []row

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < minColumns {
			return
		}

		typ := strings.TrimSpace(cells.Eq(colType).Text())
		dateRaw := strings.TrimSpace(cells.Eq(colDate).Text())
		countryCell := cells.Eq(colCountry)

		var link string
		if href, ok := countryCell.Find("a").First().Attr("href"); ok {
			link = resolveLink(base, href)
		}

		rows = append(rows, row{
			typ:       typ,
			startDate: parseDay(dateRaw, layout),
			dateRaw:   dateRaw,
			country:   countryFromTitle(countryCell.Text()),
			link:      link,
		})
	})

	return rows
}

// parseDay разбирает дату в локальной зоне и отбрасывает время суток.
// Неразборчивая дата даёт нулевое время.
func parseDay(text, layout string) time.Time {
	t, err := time.ParseInLocation(layout, strings.TrimSpace(text), time.Local)
	if err != nil {
		return time.Time{}
	}

	return truncateToDay(t)
}

// truncateToDay — полночь того же календарного дня в зоне t.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// countryFromTitle вырезает название страны из заголовка
// ("Honduras Travel Warning" -> "honduras"). Без маркера — пустая строка.
func countryFromTitle(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))

	i := strings.Index(lower, travelMarker)
	if i < 0 {
		return ""
	}

	return strings.TrimSpace(lower[:i])
}

// resolveLink превращает href в абсолютный URL относительно base.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if base == nil {
		if ref.IsAbs() {
			return ref.String()
		}

		return ""
	}

	return base.ResolveReference(ref).String()
}

// parseDetail достаёт полный текст и краткое описание со страницы подробностей.
func parseDetail(doc *goquery.Document, textSel, overviewSel string) (text, overview string) {
	return strings.TrimSpace(doc.Find(textSel).Text()),
		strings.TrimSpace(doc.Find(overviewSel).Text())
}
