// countries — справочник стран и нормализация свободного текста в ISO-коды.
package countries

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var embeddedDirectory []byte

// Directory — каноничный справочник код -> название страны.
// Неизменяем после создания; безопасен для конкурентного чтения.
type Directory struct {
	names map[string]string
	codes []string
}

// NewDirectory строит справочник из готового отображения.
// Коды приводятся к верхнему регистру; пустые коды и названия отбрасываются.
func NewDirectory(names map[string]string) *Directory {
	d := &Directory{names: make(map[string]string, len(names))}

	for code, name := range names {
		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)

		if code == "" || name == "" {
			continue
		}

		d.names[code] = name
	}

	d.codes = make([]string, 0, len(d.names))
	for code := range d.names {
		d.codes = append(d.codes, code)
	}

	sort.Strings(d.codes)

	return d
}

// Default возвращает встроенный справочник ISO 3166-1 alpha-2.
func Default() (*Directory, error) {
	const op = "countries/directory/Default"

	d, err := decodeYAML(embeddedDirectory)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// Load читает справочник из файла. Формат выбирается по расширению:
// .json — объект {"KE": "Kenya", ...} (формат countryList.json), иначе YAML.
// Пустой путь — встроенный справочник.
func Load(path string) (*Directory, error) {
	const op = "countries/directory/Load"

	if path == "" {
		return Default()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: read: %w", op, err)
	}

	var d *Directory
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		d, err = decodeJSON(raw)
	default:
		d, err = decodeYAML(raw)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %q: %w", op, path, err)
	}

	if d.Len() == 0 {
		return nil, fmt.Errorf("%s: %q: directory is empty", op, path)
	}

	return d, nil
}

func decodeYAML(raw []byte) (*Directory, error) {
	var names map[string]string
	if err := yaml.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	return NewDirectory(names), nil
}

func decodeJSON(raw []byte) (*Directory, error) {
	var names map[string]string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	return NewDirectory(names), nil
}

// Codes возвращает все коды в отсортированном порядке (копия).
func (d *Directory) Codes() []string {
	return append([]string(nil), d.codes...)
}

// Name возвращает название страны по коду.
func (d *Directory) Name(code string) (string, bool) {
	name, ok := d.names[strings.ToUpper(code)]
	return name, ok
}

// Len — число стран в справочнике.
func (d *Directory) Len() int {
	return len(d.codes)
}
