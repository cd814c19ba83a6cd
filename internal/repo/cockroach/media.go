package cockroach

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/minio/minio-go/v7"

	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/repo"
)

const mediaBucket = "media-library"

type MediaDB struct {
	db          *sqlx.DB
	minioClient *minio.Client
}

func NewMedia(db *sqlx.DB, minioClient *minio.Client) (repo.Media, error) {
	// создаём бакет медиатеки, если его ещё нет; вызывается на старте процесса
	ctx := context.Background()
	exists, err := minioClient.BucketExists(ctx, mediaBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = minioClient.MakeBucket(ctx, mediaBucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, err
		}
	}
	return &MediaDB{
		db:          db,
		minioClient: minioClient,
	}, nil
}

func (m *MediaDB) UploadFile(ctx context.Context, file *entity.MediaFile) (int, error) {
	data, err := io.ReadAll(file.RawBytes)
	if err != nil {
		return 0, err
	}
	_, err = m.minioClient.PutObject(ctx, mediaBucket, file.FilePath, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return 0, err
	}

	query := `
        INSERT INTO media_file (file_path, file_type, uploaded_by_user_id, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id int
	err = m.db.QueryRowContext(ctx, query, file.FilePath, file.FileType, file.UserID, time.Now()).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (m *MediaDB) GetMediaFile(ctx context.Context, id int) (*entity.MediaFile, error) {
	file, err := m.GetMediaFileInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	object, err := m.minioClient.GetObject(ctx, mediaBucket, file.FilePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	file.RawBytes = object
	return file, nil
}

func (m *MediaDB) GetMediaFileInfo(ctx context.Context, id int) (*entity.MediaFile, error) {
	file := &entity.MediaFile{}
	query := `SELECT id, file_path, file_type, uploaded_by_user_id, created_at FROM media_file WHERE id = $1`
	err := m.db.GetContext(ctx, file, query, id)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (m *MediaDB) PresignedURL(ctx context.Context, filePath string) (string, error) {
	u, err := m.minioClient.PresignedGetObject(ctx, mediaBucket, filePath, time.Hour, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (m *MediaDB) StoreObject(ctx context.Context, data []byte, contentType string) (string, error) {
	ext := "bin"
	if contentType == "image/jpeg" {
		ext = "jpg"
	}
	objectName := fmt.Sprintf("staged/%s.%s", uuid.New().String(), ext)
	_, err := m.minioClient.PutObject(ctx, mediaBucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}
