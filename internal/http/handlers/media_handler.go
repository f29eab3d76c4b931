package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sydneykevadiya/groundnut-backend/internal/dto"
	"github.com/sydneykevadiya/groundnut-backend/internal/http/handlers/common"
	"github.com/sydneykevadiya/groundnut-backend/internal/storage"
)

// MediaHandler — загрузка фотографий партий.
type MediaHandler struct {
	images *storage.ImageStorage
}

// NewMediaHandler создаёт хэндлер.
func NewMediaHandler(images *storage.ImageStorage) *MediaHandler {
	return &MediaHandler{images: images}
}

// Upload обрабатывает POST /media/photos (multipart поле "photo").
func (h *MediaHandler) Upload(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		common.RespondBadRequest(c, "файл photo обязателен")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		common.RespondBadRequest(c, "не удалось прочитать файл")
		return
	}
	defer f.Close()

	relative, size, err := h.images.Save(c.Request.Context(), userID, fileHeader.Filename, f)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	common.RespondJSON(c, http.StatusCreated, dto.UploadResponse{
		URL:  "/media/" + relative,
		Size: size,
	})
}
