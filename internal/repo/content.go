package repo

import (
	"errors"
	"time"

	"socialflow-backend/internal/entity"
)

var (
	ErrContentNotFound  = errors.New("content not found")
	ErrScheduleNotFound = errors.New("schedule not found")
)

type Content interface {
	// AddContentItem добавляет элемент контента и возвращает его айди
	AddContentItem(item *entity.ContentItem) (int, error)
	// GetContentItem возвращает элемент контента по айди
	GetContentItem(contentItemID int) (*entity.ContentItem, error)
	// GetContentItems возвращает элементы контента по фильтру
	GetContentItems(filter *entity.ContentFilter) ([]*entity.ContentItem, error)

	// AddContentVersion добавляет новую версию текста/метаданных и возвращает её айди
	AddContentVersion(version *entity.ContentVersion) (int, error)
	// GetCurrentContentVersion возвращает последнюю версию элемента контента
	GetCurrentContentVersion(contentItemID int) (*entity.ContentVersion, error)

	// AddSchedule добавляет запись расписания и возвращает её айди
	AddSchedule(schedule *entity.Schedule) (int, error)
	// GetSchedule возвращает запись расписания по айди
	GetSchedule(scheduleID int) (*entity.Schedule, error)
	// GetContentSchedules возвращает все записи расписания по элементу контента
	GetContentSchedules(contentItemID int) ([]*entity.Schedule, error)
	// GetDueSchedules возвращает наступившие записи расписания в заданном статусе
	GetDueSchedules(status string, limit int) ([]*entity.Schedule, error)
	// UpdateScheduleStatus обновляет статус записи расписания и детали итога публикации
	UpdateScheduleStatus(scheduleID int, status string, details *entity.ScheduleStatusDetails) error
	// RescheduleAt возвращает запись расписания в pending с новым временем публикации
	RescheduleAt(scheduleID int, at time.Time) error
}
