package service

import "errors"

// Ошибки, которые видит вызывающая сторона. Подробности внутренних сбоев
// пишутся в лог и наружу не передаются.
var (
	// ErrInvalidRequest некорректные координаты или радиус
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNoSafePath в безопасном подграфе нет пути между точками
	ErrNoSafePath = errors.New("no safe path found")
	// ErrNetworkUnavailable провайдер не смог отдать дорожную сеть для области
	ErrNetworkUnavailable = errors.New("road network unavailable")
	// ErrTimeout превышено время построения маршрута
	ErrTimeout = errors.New("route computation timed out")
	// ErrInternal непредвиденная внутренняя ошибка
	ErrInternal = errors.New("internal error")
	// ErrModelNotReady модель распознавания пожаров не загружена
	ErrModelNotReady = errors.New("prediction model is not loaded")
	// ErrNotFound данные не найдены
	ErrNotFound = errors.New("not found")
)
