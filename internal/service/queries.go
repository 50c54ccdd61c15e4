package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
)

// ListWarnings возвращает все сохранённые предупреждения, сгруппированные по коду страны.
// Это же загрузчик кэша для GET /warnings.
func (s *Service) ListWarnings(ctx context.Context) (models.WarningsByCountry, error) {
	const op = "service/queries/ListWarnings"

	lg := log.From(ctx)

	items, err := s.storage.ListWarnings(ctx)
	if err != nil {
		lg.Error("list_warnings_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Debug("list_warnings_ok",
		slog.String("op", op),
		slog.Int("items", len(items)),
	)

	return models.GroupByCountry(items), nil
}

// WarningsForCountry возвращает предупреждения одной страны, новые первыми.
//
// Ошибки:
// - ErrInvalidArgument — код не из двух латинских букв;
// - прочие ошибки стораджа — обёрнутые и прокинуты наверх.
func (s *Service) WarningsForCountry(ctx context.Context, code string) ([]models.Warning, error) {
	const op = "service/queries/WarningsForCountry"

	code, ok := normalizeCode(code)
	if !ok {
		return nil, fmt.Errorf("%s: %w: country code must be two letters", op, ErrInvalidArgument)
	}

	items, err := s.storage.WarningsByCountry(ctx, code)
	if err != nil {
		log.From(ctx).Error("warnings_by_country_storage_error",
			slog.String("op", op),
			slog.String("country", code),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if items == nil {
		items = []models.Warning{}
	}

	return items, nil
}

// ResolveCountries сопоставляет свободный текст с кодами стран.
// Без справочника возвращает пустой список.
func (s *Service) ResolveCountries(text string) []string {
	if s.resolver == nil {
		return []string{}
	}

	codes := s.resolver.ResolveCountryCodes(text)
	if codes == nil {
		return []string{}
	}

	return codes
}

// normalizeCode приводит код к верхнему регистру; допустимы ровно две ASCII-буквы.
func normalizeCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return "", false
	}

	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", false
		}
	}

	return code, true
}
