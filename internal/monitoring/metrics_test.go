package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// instrumentedRouter wires the middleware in front of routes shaped like the
// API's own: a project listing, a task creation, and a missing resource.
func instrumentedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MetricsMiddleware())
	router.GET("/api/v1/projects", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"projects": []string{}})
	})
	router.POST("/api/v1/tasks", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"message": "task created successfully"})
	})
	router.GET("/api/v1/projects/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "project not found"})
	})
	router.PUT("/api/v1/projects", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to process request"})
	})
	return router
}

func hit(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMetricsMiddleware_TracksListing(t *testing.T) {
	resetGlobalMetrics()
	router := instrumentedRouter()

	hit(router, "GET", "/api/v1/projects")

	metrics := GetMetrics()
	if metrics.RequestCount != 1 {
		t.Errorf("RequestCount = %d, want 1", metrics.RequestCount)
	}
	if metrics.ActiveRequests != 0 {
		t.Errorf("ActiveRequests = %d after completion, want 0", metrics.ActiveRequests)
	}
	if metrics.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d for a 200, want 0", metrics.ErrorCount)
	}
	if metrics.StatusCodes["OK"] != 1 {
		t.Errorf("StatusCodes[OK] = %d, want 1", metrics.StatusCodes["OK"])
	}
	if metrics.Endpoints["GET /api/v1/projects"] != 1 {
		t.Errorf("Endpoints[GET /api/v1/projects] = %d, want 1", metrics.Endpoints["GET /api/v1/projects"])
	}
}

func TestMetricsMiddleware_ServerErrorCounted(t *testing.T) {
	resetGlobalMetrics()
	router := instrumentedRouter()

	hit(router, "PUT", "/api/v1/projects")

	metrics := GetMetrics()
	if metrics.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d for a 500, want 1", metrics.ErrorCount)
	}
	if metrics.StatusCodes["Internal Server Error"] != 1 {
		t.Errorf("StatusCodes[Internal Server Error] = %d, want 1", metrics.StatusCodes["Internal Server Error"])
	}
}

func TestMetricsMiddleware_ClientErrorNotCounted(t *testing.T) {
	resetGlobalMetrics()
	router := instrumentedRouter()

	hit(router, "GET", "/api/v1/projects/missing")

	metrics := GetMetrics()
	if metrics.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d for a 404, want 0", metrics.ErrorCount)
	}
	if metrics.StatusCodes["Not Found"] != 1 {
		t.Errorf("StatusCodes[Not Found] = %d, want 1", metrics.StatusCodes["Not Found"])
	}
}

func TestMetricsMiddleware_CountsPerEndpoint(t *testing.T) {
	resetGlobalMetrics()
	router := instrumentedRouter()

	for i := 0; i < 3; i++ {
		hit(router, "GET", "/api/v1/projects")
	}
	for i := 0; i < 2; i++ {
		hit(router, "POST", "/api/v1/tasks")
	}

	metrics := GetMetrics()
	if metrics.RequestCount != 5 {
		t.Errorf("RequestCount = %d, want 5", metrics.RequestCount)
	}
	if metrics.Endpoints["GET /api/v1/projects"] != 3 {
		t.Errorf("Endpoints[GET /api/v1/projects] = %d, want 3", metrics.Endpoints["GET /api/v1/projects"])
	}
	if metrics.Endpoints["POST /api/v1/tasks"] != 2 {
		t.Errorf("Endpoints[POST /api/v1/tasks] = %d, want 2", metrics.Endpoints["POST /api/v1/tasks"])
	}
	if metrics.StatusCodes["Created"] != 2 {
		t.Errorf("StatusCodes[Created] = %d, want 2", metrics.StatusCodes["Created"])
	}
}

func TestGetMetrics_ReturnsSnapshot(t *testing.T) {
	resetGlobalMetrics()
	router := instrumentedRouter()
	hit(router, "GET", "/api/v1/projects")

	snapshot := GetMetrics()
	snapshot.StatusCodes["OK"] = 99
	snapshot.Endpoints["GET /api/v1/projects"] = 99

	fresh := GetMetrics()
	if fresh.StatusCodes["OK"] != 1 {
		t.Errorf("Mutating a snapshot leaked into the counters: %d", fresh.StatusCodes["OK"])
	}
	if fresh.Endpoints["GET /api/v1/projects"] != 1 {
		t.Errorf("Mutating a snapshot leaked into the counters: %d", fresh.Endpoints["GET /api/v1/projects"])
	}
}

func TestGetMetrics_ThreadSafety(t *testing.T) {
	resetGlobalMetrics()
	router := instrumentedRouter()

	done := make(chan bool)
	go func() {
		for i := 0; i < 100; i++ {
			_ = GetMetrics()
		}
		done <- true
	}()

	for i := 0; i < 50; i++ {
		hit(router, "GET", "/api/v1/projects")
	}

	<-done

	metrics := GetMetrics()
	if metrics.RequestCount < 0 || metrics.RequestCount > 50 {
		t.Errorf("Unexpected RequestCount: %d", metrics.RequestCount)
	}
}

func TestMetrics_ConcurrentRequests(t *testing.T) {
	resetGlobalMetrics()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MetricsMiddleware())
	router.GET("/api/v1/tasks", func(c *gin.Context) {
		time.Sleep(5 * time.Millisecond)
		c.Status(http.StatusOK)
	})

	done := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		go func() {
			hit(router, "GET", "/api/v1/tasks")
			done <- true
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	metrics := GetMetrics()
	if metrics.RequestCount != 8 {
		t.Errorf("RequestCount = %d, want 8", metrics.RequestCount)
	}
	if metrics.ActiveRequests != 0 {
		t.Errorf("ActiveRequests = %d after all requests finished, want 0", metrics.ActiveRequests)
	}
}

func TestGetSystemMetrics(t *testing.T) {
	metrics := GetSystemMetrics()

	if metrics.Uptime <= 0 {
		t.Error("Expected positive uptime")
	}
	if metrics.GoroutineCount <= 0 {
		t.Error("Expected positive goroutine count")
	}
	if metrics.CPUCount <= 0 {
		t.Error("Expected positive CPU count")
	}
	if metrics.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %s, want %s", metrics.GoVersion, runtime.Version())
	}
}

func TestBToMb(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  uint64
	}{
		{0, 0},
		{1024*1024 - 1, 0},
		{1024 * 1024, 1},
		{1024 * 1024 * 42, 42},
		{1024 * 1024 * 2048, 2048},
	}

	for _, tt := range tests {
		if got := bToMb(tt.bytes); got != tt.want {
			t.Errorf("bToMb(%d) = %d, want %d", tt.bytes, got, tt.want)
		}
	}
}

func TestRegisterHealthCheck(t *testing.T) {
	resetGlobalHealthChecker()

	RegisterHealthCheck("database", func(ctx context.Context) error { return nil })

	checks := RunHealthChecks()
	if len(checks) != 1 {
		t.Fatalf("Expected 1 health check, got %d", len(checks))
	}

	check, exists := checks["database"]
	if !exists {
		t.Fatal("Expected the database check to be registered")
	}
	if check.Name != "database" {
		t.Errorf("Check name = %s, want database", check.Name)
	}
	if check.Status != "healthy" {
		t.Errorf("Check status = %s, want healthy", check.Status)
	}
}

func TestRunHealthChecks_MixedResults(t *testing.T) {
	resetGlobalHealthChecker()

	RegisterHealthCheck("database", func(ctx context.Context) error { return nil })
	RegisterHealthCheck("redis", func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	checks := RunHealthChecks()
	if len(checks) != 2 {
		t.Fatalf("Expected 2 health checks, got %d", len(checks))
	}
	if checks["database"].Status != "healthy" {
		t.Errorf("database status = %s, want healthy", checks["database"].Status)
	}
	if checks["redis"].Status != "unhealthy" {
		t.Errorf("redis status = %s, want unhealthy", checks["redis"].Status)
	}
	if checks["redis"].Message != "connection refused" {
		t.Errorf("redis message = %s, want connection refused", checks["redis"].Message)
	}
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return response
}

func TestMetricsHandler(t *testing.T) {
	resetGlobalMetrics()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", MetricsHandler())

	w := hit(router, "GET", "/metrics")
	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", w.Code)
	}

	response := decodeResponse(t, w)
	for _, key := range []string{"application", "system", "timestamp"} {
		if _, exists := response[key]; !exists {
			t.Errorf("Expected %s in metrics response", key)
		}
	}
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy", func(t *testing.T) {
		resetGlobalHealthChecker()
		RegisterHealthCheck("database", func(ctx context.Context) error { return nil })

		router := gin.New()
		router.GET("/health", HealthHandler())

		w := hit(router, "GET", "/health")
		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want 200", w.Code)
		}
		if status := decodeResponse(t, w)["status"]; status != "healthy" {
			t.Errorf("status = %v, want healthy", status)
		}
	})

	t.Run("unhealthy", func(t *testing.T) {
		resetGlobalHealthChecker()
		RegisterHealthCheck("database", func(ctx context.Context) error {
			return errors.New("dial timeout")
		})

		router := gin.New()
		router.GET("/health", HealthHandler())

		w := hit(router, "GET", "/health")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want 503", w.Code)
		}
		if status := decodeResponse(t, w)["status"]; status != "unhealthy" {
			t.Errorf("status = %v, want unhealthy", status)
		}
	})
}

func TestReadinessHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ready", func(t *testing.T) {
		resetGlobalHealthChecker()
		RegisterHealthCheck("database", func(ctx context.Context) error { return nil })

		router := gin.New()
		router.GET("/ready", ReadinessHandler())

		w := hit(router, "GET", "/ready")
		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want 200", w.Code)
		}
		if status := decodeResponse(t, w)["status"]; status != "ready" {
			t.Errorf("status = %v, want ready", status)
		}
	})

	t.Run("not ready", func(t *testing.T) {
		resetGlobalHealthChecker()
		RegisterHealthCheck("database", func(ctx context.Context) error {
			return errors.New("migrations pending")
		})

		router := gin.New()
		router.GET("/ready", ReadinessHandler())

		w := hit(router, "GET", "/ready")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want 503", w.Code)
		}
		if status := decodeResponse(t, w)["status"]; status != "not ready" {
			t.Errorf("status = %v, want not ready", status)
		}
	})
}

func TestLivenessHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/live", LivenessHandler())

	w := hit(router, "GET", "/live")
	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", w.Code)
	}

	response := decodeResponse(t, w)
	if response["status"] != "alive" {
		t.Errorf("status = %v, want alive", response["status"])
	}
	if _, exists := response["uptime"]; !exists {
		t.Error("Expected uptime in liveness response")
	}
}

func resetGlobalMetrics() {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	globalMetrics.RequestCount = 0
	globalMetrics.RequestDuration = 0
	globalMetrics.ActiveRequests = 0
	globalMetrics.ErrorCount = 0
	globalMetrics.StatusCodes = make(map[string]int64)
	globalMetrics.Endpoints = make(map[string]int64)
	globalMetrics.StartTime = time.Now()
	globalMetrics.LastRequest = time.Time{}
	globalMetrics.totalDuration = 0
}

func resetGlobalHealthChecker() {
	globalHealthChecker.mu.Lock()
	defer globalHealthChecker.mu.Unlock()
	globalHealthChecker.checks = make(map[string]HealthCheck)
}

func BenchmarkMetricsMiddleware(b *testing.B) {
	resetGlobalMetrics()
	router := instrumentedRouter()

	req, _ := http.NewRequest("GET", "/api/v1/projects", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

func BenchmarkGetMetrics(b *testing.B) {
	resetGlobalMetrics()

	globalMetrics.RequestCount = 1000
	globalMetrics.StatusCodes["OK"] = 900
	globalMetrics.StatusCodes["Not Found"] = 100
	globalMetrics.Endpoints["GET /api/v1/projects"] = 600
	globalMetrics.Endpoints["GET /api/v1/tasks"] = 400

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetMetrics()
	}
}
