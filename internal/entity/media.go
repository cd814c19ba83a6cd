package entity

import (
	"io"
	"time"
)

// MediaAsset содержит байты изображения после перекодирования под ограничения платформы.
type MediaAsset struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// MediaFile описывает файл медиатеки, содержимое хранится в объектном хранилище.
type MediaFile struct {
	ID        int       `json:"id" db:"id"`
	RawBytes  io.Reader `json:"-"`
	FilePath  string    `json:"file_path" db:"file_path"`
	FileType  string    `json:"file_type" db:"file_type"`
	UserID    int       `json:"uploaded_by_user_id" db:"uploaded_by_user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
