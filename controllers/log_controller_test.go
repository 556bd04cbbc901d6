package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	calls int
}

func (s *stubClassifier) Classify(ctx context.Context, tensor []float32) (services.ClassificationResult, error) {
	s.calls++
	return services.ClassificationResult{Results: []services.Prediction{{Label: "apple", Value: 0.9}}}, nil
}

type stubProvider struct{}

func (stubProvider) Authenticate(ctx context.Context) (string, error) { return "tok", nil }

func (stubProvider) SearchFood(ctx context.Context, token, name string) (string, error) {
	return "33691", nil
}

func (stubProvider) GetFoodDetail(ctx context.Context, token, foodID string) (*services.FoodDetail, error) {
	return &services.FoodDetail{
		FoodName: "Apple",
		Servings: []services.FoodServing{{Calories: "52"}},
	}, nil
}

type stubStore struct {
	entries []models.NutritionLog
}

func (s *stubStore) Create(entry *models.NutritionLog) error {
	entry.ID = uint(len(s.entries) + 1)
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubStore) List() ([]models.NutritionLog, error) {
	return s.entries, nil
}

func testRouter(t *testing.T) (*gin.Engine, *stubClassifier, *stubStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("UPLOAD_DIR", t.TempDir())

	cl := &stubClassifier{}
	st := &stubStore{}
	pipeline := services.NewPipelineService(cl, stubProvider{}, st)
	ctrl := NewLogController(pipeline, st)

	r := gin.New()
	r.POST("/api/v1/logs", ctrl.CreateLog)
	r.GET("/api/v1/logs", ctrl.ListLogs)
	return r, cl, st
}

func multipartImage(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 10, A: 255})
		}
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("image", "lunch.png")
	require.NoError(t, err)
	_, err = fw.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestCreateLogSuccess(t *testing.T) {
	r, _, st := testRouter(t)

	body, contentType := multipartImage(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/logs", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var got models.NutritionLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Apple", got.FoodName)
	assert.Equal(t, 52.0, got.Calories)
	assert.Len(t, st.entries, 1)
}

func TestCreateLogWithoutFile(t *testing.T) {
	r, cl, st := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/logs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No image uploaded")
	assert.Zero(t, cl.calls, "pipeline must not run without an upload")
	assert.Empty(t, st.entries)
}

func TestListLogsEnvelope(t *testing.T) {
	r, _, st := testRouter(t)
	st.entries = []models.NutritionLog{
		{ID: 1, FoodName: "Apple", Calories: 52},
		{ID: 2, FoodName: "Banana", Calories: 89},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
		Result int    `json:"result"`
		Data   struct {
			Logs []models.NutritionLog `json:"logs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 2, resp.Result)
	require.Len(t, resp.Data.Logs, 2)
	assert.Equal(t, "Apple", resp.Data.Logs[0].FoodName)
}

func TestCreateLogCleansUpUpload(t *testing.T) {
	r, _, _ := testRouter(t)

	body, contentType := multipartImage(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/logs", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// nothing may linger in the uploads dir once the run is over
	entries, err := os.ReadDir(os.Getenv("UPLOAD_DIR"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
