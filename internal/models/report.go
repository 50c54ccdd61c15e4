package models

import "time"

// BatchResult — итог пакетного upsert одного прогона.
type BatchResult struct {
	// BatchUUID пуст, если пакет был пустым (no-op).
	BatchUUID string
	// Sources — различные источники в пакете, отсортированы.
	Sources []string
	// Inserted — предупреждения, которых не было в хранилище; только они уходят в рассылку.
	Inserted []Warning
	// Updated — предупреждения, совпавшие по естественному ключу с существующими.
	Updated []Warning
	// Failed — число записей, upsert которых завершился ошибкой.
	Failed int
}

// NotifyResult — итог рассылки по новым предупреждениям.
type NotifyResult struct {
	Warnings int
	Requests int
	Sent     int
	Failed   int
}

// RunReport — сводка одного прогона конвейера.
type RunReport struct {
	BatchUUID  string        `json:"batchUUID,omitempty"`
	Scraped    int           `json:"scraped"`
	Inserted   int           `json:"inserted"`
	Updated    int           `json:"updated"`
	Failed     int           `json:"failed"`
	Reaped     int64         `json:"reaped"`
	Requests   int           `json:"requests"`
	Sent       int           `json:"sent"`
	SendFailed int           `json:"sendFailed"`
	Duration   time.Duration `json:"duration"`
}
