package models

import (
	"errors"
	"fmt"
)

// Типизированные ошибки ядра. Обработчики HTTP маппят их на коды ответа.
var (
	// ErrNotFound - запрошенный инцидент/зона/сигнал не существует
	ErrNotFound = errors.New("not found")
	// ErrInvalidVote - действие голосования вне набора {confirm, deny}
	ErrInvalidVote = errors.New("invalid vote action")
	// ErrInvalidGeometry - радиус <= 0 или некорректные координаты
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrUpstreamUnavailable - отказ или таймаут внешней зависимости
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// PartialError сообщает о частично выполненном создании SOS:
// сигнал и сопутствующий инцидент создаются без компенсации,
// вызывающая сторона должна знать, что именно успело произойти.
type PartialError struct {
	SignalCreated   bool
	IncidentCreated bool
	Err             error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("partial failure (signal=%t, incident=%t): %v",
		e.SignalCreated, e.IncidentCreated, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
