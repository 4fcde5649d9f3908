package handler

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"safe-route-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxImageSize ограничение размера загружаемого изображения
const maxImageSize = 32 << 20

// Predictor распознает пожары на изображениях
type Predictor interface {
	Predict(ctx context.Context, filename string, data []byte) (*models.PredictionResponse, error)
	CheckHealth(ctx context.Context) *models.HealthResponse
}

// PredictionHandler обработчик для распознавания пожаров
type PredictionHandler struct {
	predictor Predictor
	logger    *logrus.Logger
}

// NewPredictionHandler создает новый обработчик
func NewPredictionHandler(predictor Predictor, logger *logrus.Logger) *PredictionHandler {
	return &PredictionHandler{
		predictor: predictor,
		logger:    logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *PredictionHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/predict/wildfire", h.PredictWildfire)
}

// PredictWildfire обрабатывает запрос на распознавание пожара
// @Summary Распознавание пожара на изображении
// @Description Отправляет изображение в сервис модели и возвращает метку класса
// @Tags prediction
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Изображение (image/*)"
// @Success 200 {object} models.PredictionResponse
// @Failure 400 {object} gin.H
// @Failure 503 {object} gin.H
// @Router /predict/wildfire [post]
func (h *PredictionHandler) PredictWildfire(c *gin.Context) {
	logger := h.logger.WithField("request_id", RequestID(c))
	logger.Info("Получен запрос на распознавание пожара")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		logger.Errorf("Ошибка получения файла: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл изображения обязателен"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Errorf("Ошибка чтения файла: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ошибка чтения файла"})
		return
	}

	if !strings.HasPrefix(imageContentType(header.Header.Get("Content-Type"), header.Filename, data), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл должен быть изображением"})
		return
	}
	logger.Infof("Прочитано %d байт из файла %s", len(data), header.Filename)

	result, err := h.predictor.Predict(c.Request.Context(), header.Filename, data)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// imageContentType определяет тип файла по заголовку, расширению или содержимому
func imageContentType(declared, filename string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}
