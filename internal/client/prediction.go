package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"safe-route-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// PredictionClient клиент для сервиса модели распознавания пожаров
type PredictionClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewPredictionClient создает новый клиент для сервиса модели
func NewPredictionClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *PredictionClient {
	return &PredictionClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Predict отправляет изображение на классификацию
func (c *PredictionClient) Predict(ctx context.Context, filename string, data []byte) (*models.PredictionResponse, error) {
	c.logger.WithField("filename", filename).Info("Отправка изображения в сервис модели")

	// Создаем multipart form-data
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fileWriter, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания form field для изображения: %w", err)
	}

	if _, err := fileWriter.Write(data); err != nil {
		return nil, fmt.Errorf("ошибка записи данных изображения: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("ошибка закрытия multipart writer: %w", err)
	}

	url := fmt.Sprintf("%s/predict", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Debugf("Отправка POST запроса на %s", url)
	var prediction models.PredictionResponse
	if err := c.do(req, &prediction); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"prediction": prediction.Prediction,
		"confidence": prediction.Confidence,
	}).Info("Успешно получен ответ от сервиса модели")
	return &prediction, nil
}

// CheckHealth проверяет состояние сервиса модели
func (c *PredictionClient) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	c.logger.Debug("Проверка здоровья сервиса модели")

	url := fmt.Sprintf("%s/health", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}

	var health models.HealthResponse
	if err := c.do(req, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// do выполняет запрос и разбирает JSON ответ
func (c *PredictionClient) do(req *http.Request, dest interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки HTTP запроса: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервис модели вернул ошибку: статус %d, тело: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("ошибка парсинга JSON ответа: %w", err)
	}
	return nil
}
