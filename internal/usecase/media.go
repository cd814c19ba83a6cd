package usecase

import (
	"context"

	"socialflow-backend/internal/entity"
)

// Media загружает и готовит медиа под ограничения платформ.
type Media interface {
	// Fetch скачивает содержимое по URL
	Fetch(ctx context.Context, url string) ([]byte, error)
	// ProcessImage перекодирует изображение под формат и лимиты платформы
	ProcessImage(data []byte, platform entity.Platform) (*entity.MediaAsset, error)
	// StageAsset кладёт подготовленный asset в хранилище и возвращает временный
	// публичный URL: Instagram забирает медиа по ссылке, а не байтами
	StageAsset(ctx context.Context, asset *entity.MediaAsset) (string, error)
	// UploadFile сохраняет файл в медиатеку и возвращает его айди
	UploadFile(ctx context.Context, file *entity.MediaFile) (int, error)
	// GetMediaFile возвращает файл медиатеки с содержимым
	GetMediaFile(ctx context.Context, id int) (*entity.MediaFile, error)
}
