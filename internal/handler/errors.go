package handler

import (
	"errors"
	"net/http"

	"safe-route-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusFor сопоставляет ошибку сервиса с HTTP статусом и текстом для клиента
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNoSafePath):
		return http.StatusNotFound, "Безопасный маршрут не найден"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Данные не найдены"
	case errors.Is(err, service.ErrNetworkUnavailable):
		return http.StatusServiceUnavailable, "Дорожная сеть для области недоступна"
	case errors.Is(err, service.ErrModelNotReady):
		return http.StatusServiceUnavailable, "Модель не загружена"
	case errors.Is(err, service.ErrTimeout):
		return http.StatusGatewayTimeout, "Превышено время построения маршрута"
	default:
		return http.StatusInternalServerError, "Внутренняя ошибка сервера"
	}
}

// respondError пишет ошибку в лог и отдает клиенту только безопасный текст
func respondError(c *gin.Context, logger *logrus.Entry, err error) {
	status, message := statusFor(err)
	entry := logger.WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("Запрос завершился ошибкой")
	} else {
		entry.Info("Запрос отклонен")
	}
	c.JSON(status, gin.H{"error": message})
}
