package service

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/pribylovaa/go-travel-warnings/internal/config"
	"github.com/pribylovaa/go-travel-warnings/internal/countries"
	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/mocks"
)

const (
	testBatchID = "batch-1"
	testSource  = "US State Department"
)

// deps — набор моков для одного теста сервиса.
type deps struct {
	st      *mocks.MockStorage
	scraper *mocks.MockScraper
	sender  *mocks.MockSender
}

func newDeps(t *testing.T) deps {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	return deps{
		st:      mocks.NewMockStorage(ctrl),
		scraper: mocks.NewMockScraper(ctrl),
		sender:  mocks.NewMockSender(ctrl),
	}
}

// testConfig — небольшие лимиты, чтобы конкурентность проявлялась в тестах.
func testConfig() config.Config {
	return config.Config{
		Batch:    config.BatchConfig{Concurrency: 4},
		Notify:   config.NotifyConfig{Concurrency: 2},
		Timeouts: config.TimeoutConfig{Run: 5 * time.Second},
	}
}

func fixedBatchID(id string) func() (string, error) {
	return func() (string, error) { return id, nil }
}

// newSvcForTest — фабрика Service с моками и фиксированным batch id.
func newSvcForTest(t *testing.T, d deps, opts ...Option) *Service {
	t.Helper()

	dir := countries.NewDirectory(map[string]string{
		"KE": "Kenya",
		"US": "United States",
		"FR": "France",
	})

	opts = append([]Option{WithBatchIDGenerator(fixedBatchID(testBatchID))}, opts...)

	return New(d.st, d.scraper, d.sender, countries.NewResolver(dir), testConfig(), opts...)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func warning(code string, start time.Time) models.Warning {
	return models.Warning{
		CountryCode: code,
		Type:        "Warning",
		StartDate:   start,
		Source:      testSource,
		ColorClass:  models.ColorClassWarning,
	}
}
