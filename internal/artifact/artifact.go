// artifact публикует снимок предупреждений warnings.json: объект
// "код страны -> массив предупреждений", который читает фронтенд.
// artifact.go — общий кодировщик и fan-out на несколько приёмников.
// file.go — атомарная запись в файл.
// s3.go — загрузка в бакет MinIO/S3.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pribylovaa/go-travel-warnings/internal/models"
)

// ContentType артефакта.
const ContentType = "application/json"

// Encode сериализует предупреждения с отступом в два пробела.
// nil кодируется как пустой объект.
func Encode(warnings models.WarningsByCountry) ([]byte, error) {
	const op = "artifact/artifact/Encode"

	if warnings == nil {
		warnings = models.WarningsByCountry{}
	}

	raw, err := json.MarshalIndent(warnings, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return append(raw, '\n'), nil
}

// Publisher — приёмник артефакта.
type Publisher interface {
	Publish(ctx context.Context, warnings models.WarningsByCountry) error
}

// Multi публикует артефакт во все приёмники; ошибки объединяются,
// сбой одного приёмника не отменяет остальные.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, warnings models.WarningsByCountry) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, warnings); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
