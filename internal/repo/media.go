package repo

import (
	"context"

	"socialflow-backend/internal/entity"
)

type Media interface {
	// UploadFile сохраняет файл в объектное хранилище и возвращает его айди
	UploadFile(ctx context.Context, file *entity.MediaFile) (int, error)
	// GetMediaFile возвращает файл с содержимым по его айди
	GetMediaFile(ctx context.Context, id int) (*entity.MediaFile, error)
	// GetMediaFileInfo возвращает метаданные файла без содержимого
	GetMediaFileInfo(ctx context.Context, id int) (*entity.MediaFile, error)
	// PresignedURL возвращает временную публичную ссылку на объект: по ней
	// платформенные API (Instagram) забирают медиа самостоятельно
	PresignedURL(ctx context.Context, filePath string) (string, error)
	// StoreObject кладёт произвольный объект (подготовленный asset) и возвращает его путь
	StoreObject(ctx context.Context, data []byte, contentType string) (string, error)
}
