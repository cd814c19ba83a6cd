package usecase

import (
	"errors"

	"socialflow-backend/internal/entity"
)

var (
	ErrUserForbidden       = errors.New("forbidden")
	ErrContentBodyRequired = errors.New("content body is required")
)

// Content оборачивает хранилище контента CRUD-операциями для админки.
type Content interface {
	// AddContent создаёт элемент контента с первой версией и возвращает его айди
	AddContent(request *entity.AddContentRequest) (int, error)
	// EditContent добавляет новую версию текста/метаданных
	EditContent(request *entity.EditContentRequest) (int, error)
	// GetContent возвращает элемент контента с текущей версией
	GetContent(request *entity.GetContentRequest) (*entity.ContentItem, *entity.ContentVersion, error)
	// GetContents возвращает элементы контента по фильтру
	GetContents(userID int, filter *entity.ContentFilter) ([]*entity.ContentItem, error)
	// AddSchedule создаёт запись расписания публикации
	AddSchedule(request *entity.AddScheduleRequest) (int, error)
	// GetSchedules возвращает записи расписания по элементу контента
	GetSchedules(request *entity.GetContentRequest) ([]*entity.Schedule, error)
	// GetSchedule возвращает запись расписания со статусом публикации
	GetSchedule(userID int, scheduleID int) (*entity.Schedule, error)
}
