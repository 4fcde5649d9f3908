package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"safe-route-go/pkg/models"
)

func main() {
	baseURL := os.Getenv("SAFE_ROUTE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	client := &http.Client{Timeout: 2 * time.Minute}

	// Проверяем health endpoint
	fmt.Println("Проверяем health endpoint...")
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		fmt.Printf("Ошибка при обращении к health endpoint: %v\n", err)
		return
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		fmt.Printf("Ошибка чтения ответа: %v\n", err)
		return
	}
	fmt.Printf("Health check ответ (статус %d):\n%s\n\n", resp.StatusCode, string(body))

	if len(os.Args) < 5 {
		fmt.Println("Для построения маршрута запустите: smoke-client <start_lat> <start_lon> <end_lat> <end_lon> [radius_m]")
		return
	}

	if err := testRoute(client, baseURL, os.Args[1:]); err != nil {
		fmt.Printf("Ошибка при построении маршрута: %v\n", err)
	}
}

func testRoute(client *http.Client, baseURL string, args []string) error {
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("неверное число %q: %w", arg, err)
		}
		values[i] = v
	}

	request := models.RouteRequest{
		StartLat: &values[0],
		StartLon: &values[1],
		EndLat:   &values[2],
		EndLon:   &values[3],
	}
	if len(values) > 4 {
		request.RadiusM = &values[4]
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	started := time.Now()
	resp, err := client.Post(baseURL+"/api/v1/calculate-route", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ошибка отправки запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Маршрут не построен (статус %d): %s\n", resp.StatusCode, string(body))
		return nil
	}

	var route models.RouteResponse
	if err := json.Unmarshal(body, &route); err != nil {
		return fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	fmt.Printf("Маршрут %s: %d точек, %.1f м, исключено узлов %d, учтено очагов %d (за %v)\n",
		route.ID, len(route.Route), route.DistanceMeters, route.ExcludedNodes, route.HazardsConsidered, time.Since(started))
	return nil
}
