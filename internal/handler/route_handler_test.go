package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"safe-route-go/internal/service"
	"safe-route-go/pkg/models"

	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
)

type mockPlanner struct {
	mock.Mock
}

func (m *mockPlanner) PlanEvacuation(ctx context.Context, req service.PlanRequest) (*service.RoutePlan, error) {
	args := m.Called(ctx, req)
	plan, _ := args.Get(0).(*service.RoutePlan)
	return plan, args.Error(1)
}

type mockWildfires struct {
	mock.Mock
}

func (m *mockWildfires) GetWildfires(ctx context.Context, year int, state string) (*service.WildfireList, error) {
	args := m.Called(ctx, year, state)
	list, _ := args.Get(0).(*service.WildfireList)
	return list, args.Error(1)
}

func setupTestRouter(register func(api *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	register(router.Group("/api/v1"))
	return router
}

var berkeleyPlan = &service.RoutePlan{
	ID: "6b0e7c1e-4d7b-4c1f-9a4e-0d3f0f1f2a3b",
	Path: []models.Coordinates{
		{Lat: 37.8716, Lon: -122.2727},
		{Lat: 37.8500, Lon: -122.2800},
		{Lat: 37.8272, Lon: -122.2901},
	},
	DistanceMeters:    5523.4,
	ExcludedNodes:     42,
	HazardsConsidered: 3,
}

var routeBody = map[string]interface{}{
	"start_lat": 37.8716,
	"start_lon": -122.2727,
	"end_lat":   37.8272,
	"end_lon":   -122.2901,
	"radius_m":  500,
	"year":      2015,
	"state":     "CA",
}

var calculateRouteTestCases = []struct {
	name           string
	returnedPlan   *service.RoutePlan
	returnedError  error
	expectedStatus int
}{
	{"success", berkeleyPlan, nil, http.StatusOK},
	{"invalid request", nil, fmt.Errorf("%w: start: latitude out of range", service.ErrInvalidRequest), http.StatusBadRequest},
	{"no safe path", nil, service.ErrNoSafePath, http.StatusNotFound},
	{"network unavailable", nil, service.ErrNetworkUnavailable, http.StatusServiceUnavailable},
	{"timeout", nil, service.ErrTimeout, http.StatusGatewayTimeout},
	{"internal", nil, service.ErrInternal, http.StatusInternalServerError},
	{"unexpected", nil, errors.New("boom"), http.StatusInternalServerError},
}

// TestCalculateRoute проверяет построение маршрута и сопоставление ошибок со статусами
func TestCalculateRoute(t *testing.T) {
	for _, tc := range calculateRouteTestCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			planner := &mockPlanner{}
			h := NewRouteHandler(planner, &mockWildfires{}, logger)
			server := httptest.NewServer(setupTestRouter(h.RegisterRoutes))
			defer server.Close()

			expectedRadius := 500.0
			planner.On("PlanEvacuation", mock.Anything, service.PlanRequest{
				Start:  models.Coordinates{Lat: 37.8716, Lon: -122.2727},
				End:    models.Coordinates{Lat: 37.8272, Lon: -122.2901},
				Radius: &expectedRadius,
				Filter: models.HazardFilter{Year: 2015, State: "CA"},
			}).Return(tc.returnedPlan, tc.returnedError)

			e := httpexpect.Default(t, server.URL)
			obj := e.POST("/api/v1/calculate-route").WithJSON(routeBody).
				Expect().Status(tc.expectedStatus).JSON().Object()

			if tc.expectedStatus == http.StatusOK {
				obj.Value("id").String().IsEqual(berkeleyPlan.ID)
				obj.Value("distance_meters").Number().IsEqual(5523.4)
				obj.Value("excluded_nodes").Number().IsEqual(42)
				obj.Value("hazards_considered").Number().IsEqual(3)
				route := obj.Value("route").Array()
				route.Length().IsEqual(3)
				route.Value(0).Array().Value(0).Number().IsEqual(37.8716)
				route.Value(2).Array().Value(1).Number().IsEqual(-122.2901)
			} else {
				obj.Value("error").String().NotEmpty()
				obj.Value("error").String().NotContains("boom")
			}
			planner.AssertExpectations(t)
		})
	}
}

func TestCalculateRouteInvalidErrorKeepsDetail(t *testing.T) {
	logger, _ := test.NewNullLogger()
	planner := &mockPlanner{}
	planner.On("PlanEvacuation", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: radius must be a non-negative number of meters", service.ErrInvalidRequest))
	h := NewRouteHandler(planner, &mockWildfires{}, logger)
	server := httptest.NewServer(setupTestRouter(h.RegisterRoutes))
	defer server.Close()

	e := httpexpect.Default(t, server.URL)
	e.POST("/api/v1/calculate-route").WithJSON(routeBody).
		Expect().Status(http.StatusBadRequest).
		JSON().Object().Value("error").String().Contains("radius")
}

func TestCalculateRouteMissingFields(t *testing.T) {
	logger, _ := test.NewNullLogger()
	planner := &mockPlanner{}
	h := NewRouteHandler(planner, &mockWildfires{}, logger)
	server := httptest.NewServer(setupTestRouter(h.RegisterRoutes))
	defer server.Close()

	e := httpexpect.Default(t, server.URL)
	e.POST("/api/v1/calculate-route").
		WithJSON(map[string]interface{}{"start_lat": 37.87, "start_lon": -122.27}).
		Expect().Status(http.StatusBadRequest)
	e.POST("/api/v1/calculate-route").WithText("not json").
		Expect().Status(http.StatusBadRequest)

	planner.AssertNotCalled(t, "PlanEvacuation", mock.Anything, mock.Anything)
}

func TestCalculateRouteZeroCoordinatesArePassedThrough(t *testing.T) {
	logger, _ := test.NewNullLogger()
	planner := &mockPlanner{}
	planner.On("PlanEvacuation", mock.Anything, mock.MatchedBy(func(req service.PlanRequest) bool {
		return req.Start == models.Coordinates{} && req.Radius == nil
	})).Return(berkeleyPlan, nil)
	h := NewRouteHandler(planner, &mockWildfires{}, logger)
	server := httptest.NewServer(setupTestRouter(h.RegisterRoutes))
	defer server.Close()

	e := httpexpect.Default(t, server.URL)
	e.POST("/api/v1/calculate-route").
		WithJSON(map[string]interface{}{"start_lat": 0, "start_lon": 0, "end_lat": 0.01, "end_lon": 0.01}).
		Expect().Status(http.StatusOK)
	planner.AssertExpectations(t)
}

var getWildfiresTestCases = []struct {
	name           string
	path           string
	returnedList   *service.WildfireList
	returnedError  error
	expectedStatus int
}{
	{
		name: "success",
		path: "/api/v1/wildfires/2015/CA",
		returnedList: &service.WildfireList{
			Year: 2015, State: "CA", Total: 1,
			Fires: []models.HazardPoint{{Lat: 39.1, Lon: -121.4, Magnitude: 1500}},
		},
		expectedStatus: http.StatusOK,
	},
	{name: "not found", path: "/api/v1/wildfires/1990/WY", returnedError: service.ErrNotFound, expectedStatus: http.StatusNotFound},
	{name: "internal", path: "/api/v1/wildfires/2015/CA", returnedError: service.ErrInternal, expectedStatus: http.StatusInternalServerError},
}

// TestGetWildfires проверяет получение пожаров по году и штату
func TestGetWildfires(t *testing.T) {
	for _, tc := range getWildfiresTestCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			wildfires := &mockWildfires{}
			wildfires.On("GetWildfires", mock.Anything, mock.Anything, mock.Anything).
				Return(tc.returnedList, tc.returnedError)
			h := NewRouteHandler(&mockPlanner{}, wildfires, logger)
			server := httptest.NewServer(setupTestRouter(h.RegisterRoutes))
			defer server.Close()

			e := httpexpect.Default(t, server.URL)
			obj := e.GET(tc.path).Expect().Status(tc.expectedStatus).JSON().Object()
			if tc.expectedStatus == http.StatusOK {
				obj.Value("total").Number().IsEqual(1)
				fire := obj.Value("fires").Array().Value(0).Object()
				fire.Value("latitude").Number().IsEqual(39.1)
				fire.Value("longitude").Number().IsEqual(-121.4)
			}
			wildfires.AssertExpectations(t)
		})
	}
}

func TestGetWildfiresBadYear(t *testing.T) {
	logger, _ := test.NewNullLogger()
	wildfires := &mockWildfires{}
	h := NewRouteHandler(&mockPlanner{}, wildfires, logger)
	server := httptest.NewServer(setupTestRouter(h.RegisterRoutes))
	defer server.Close()

	e := httpexpect.Default(t, server.URL)
	e.GET("/api/v1/wildfires/last-year/CA").Expect().Status(http.StatusBadRequest)
	wildfires.AssertNotCalled(t, "GetWildfires", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestIDMiddleware(t *testing.T) {
	logger, _ := test.NewNullLogger()
	planner := &mockPlanner{}
	planner.On("PlanEvacuation", mock.Anything, mock.Anything).Return(berkeleyPlan, nil)
	h := NewRouteHandler(planner, &mockWildfires{}, logger)
	server := httptest.NewServer(setupTestRouter(h.RegisterRoutes))
	defer server.Close()

	e := httpexpect.Default(t, server.URL)
	e.POST("/api/v1/calculate-route").WithJSON(routeBody).
		WithHeader(RequestIDHeader, "evac-123").
		Expect().Status(http.StatusOK).
		Header(RequestIDHeader).IsEqual("evac-123")

	e.POST("/api/v1/calculate-route").WithJSON(routeBody).
		Expect().Status(http.StatusOK).
		Header(RequestIDHeader).NotEmpty()
}
