package models

import "time"

// Request — заявка на отпуск/поездку. Конвейер только читает заявки.
type Request struct {
	ID string
	// Volunteer — идентификатор пользователя, подавшего заявку.
	Volunteer string
	// Reviewer — идентификатор сотрудника, согласовавшего заявку.
	Reviewer string
	Legs     []Leg
}

// Leg — один отрезок маршрута заявки.
type Leg struct {
	CountryCode string
	StartDate   time.Time
}

// User — пользователь; конвейеру нужны только телефоны для SMS.
type User struct {
	ID     string
	Phones []string
}
