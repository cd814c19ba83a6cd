package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialflow-backend/internal/delivery/http/utils"
	"socialflow-backend/internal/entity"
	"socialflow-backend/internal/usecase"
)

type Media struct {
	authManager  utils.Auth
	mediaUseCase usecase.Media
}

func NewMedia(authManager utils.Auth, mediaUseCase usecase.Media) *Media {
	return &Media{
		authManager:  authManager,
		mediaUseCase: mediaUseCase,
	}
}

func (m *Media) Configure(server *echo.Group) {
	server.POST("/upload", m.Upload)
	server.GET("/:id", m.GetFile)
}

func (m *Media) Upload(c echo.Context) error {
	userID, err := m.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}

	// Извлекаем файл
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Файл не найден: " + err.Error(),
		})
	}

	// Извлекаем пометку, с которой загрузили файл (photo/video/raw)
	fileType := c.FormValue("type")
	if fileType != "photo" && fileType != "video" && fileType != "raw" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный тип файла. Допустимые типы: photo, video, raw",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка чтения файла: " + err.Error(),
		})
	}
	defer func() { _ = src.Close() }()

	fileID, err := m.mediaUseCase.UploadFile(c.Request().Context(), &entity.MediaFile{
		UserID:   userID,
		FilePath: file.Filename,
		FileType: fileType,
		RawBytes: src,
	})
	if err != nil {
		c.Logger().Errorf("Ошибка сохранения файла: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сохранения файла",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"file_id": fileID,
	})
}

func (m *Media) GetFile(c echo.Context) error {
	if _, err := m.authManager.CheckAuthFromContext(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Пользователь не авторизован",
		})
	}
	fileID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный айди файла",
		})
	}
	file, err := m.mediaUseCase.GetMediaFile(c.Request().Context(), fileID)
	if err != nil {
		c.Logger().Errorf("Ошибка при получении файла: %v", err)
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Файл не найден",
		})
	}
	return c.Stream(http.StatusOK, "application/octet-stream", file.RawBytes)
}
