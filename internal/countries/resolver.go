package countries

import "strings"

// worldwide — маркер бюллетеня, касающегося всех стран.
const worldwide = "worldwide"

// exceptions — тексты, не совпадающие со справочником напрямую.
// Таблица авторитетна: совпадение здесь прекращает дальнейший поиск.
var exceptions = map[string][]string{
	"burma":                            {"MM"},
	"israel, the west bank and gaza":   {"IL"},
	"democratic republic of the congo": {"CG"},
	"republic of south sudan":          {"SD"},
}

// Resolver сопоставляет свободный текст с кодами стран.
// Чистый и детерминированный при фиксированном справочнике.
type Resolver struct {
	dir *Directory
	// byName — название в нижнем регистре -> коды (отсортированы, т.к. строится по dir.codes).
	byName map[string][]string
}

// NewResolver строит Resolver поверх справочника.
func NewResolver(dir *Directory) *Resolver {
	r := &Resolver{
		dir:    dir,
		byName: make(map[string][]string, dir.Len()),
	}

	for _, code := range dir.codes {
		key := strings.ToLower(dir.names[code])
		r.byName[key] = append(r.byName[key], code)
	}

	return r
}

// ResolveCountryCodes возвращает коды стран для текста (например, "kenya" -> [KE]).
// Пустой ввод или отсутствие совпадений — пустой результат, не ошибка.
// "worldwide" даёт все коды справочника. Результат — новый срез.
func (r *Resolver) ResolveCountryCodes(freeText string) []string {
	text := strings.ToLower(strings.TrimSpace(freeText))
	if text == "" {
		return nil
	}

	if text == worldwide {
		return r.dir.Codes()
	}

	if codes, ok := exceptions[text]; ok {
		return append([]string(nil), codes...)
	}

	return append([]string(nil), r.byName[text]...)
}

// Directory возвращает справочник, на котором построен Resolver.
func (r *Resolver) Directory() *Directory {
	return r.dir
}
