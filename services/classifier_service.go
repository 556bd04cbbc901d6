package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

type Prediction struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ClassificationResult is the ranked output of one inference run.
type ClassificationResult struct {
	Anomaly float64      `json:"anomaly"`
	Results []Prediction `json:"results"`
}

// TopLabel picks the highest-confidence label; on equal confidence the
// earlier entry wins.
func (r ClassificationResult) TopLabel() (string, error) {
	if len(r.Results) == 0 {
		return "", ErrNoLabel
	}
	best := r.Results[0]
	for _, p := range r.Results[1:] {
		if p.Value > best.Value {
			best = p
		}
	}
	if best.Label == "" {
		return "", ErrNoLabel
	}
	return best.Label, nil
}

// Classifier maps a preprocessed image tensor to ranked food labels.
type Classifier interface {
	Classify(ctx context.Context, tensor []float32) (ClassificationResult, error)
}

// ClassifierService talks to the inference sidecar that hosts the trained
// food model. The model is warmed up exactly once per process; concurrent
// first callers all wait on the same warmup.
type ClassifierService struct {
	baseURL string
	client  *http.Client

	initOnce sync.Once
	initErr  error
}

func NewClassifierService() *ClassifierService {
	return &ClassifierService{
		baseURL: strings.TrimRight(os.Getenv("CLASSIFIER_URL"), "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

var (
	defaultClassifierOnce sync.Once
	defaultClassifier     *ClassifierService
)

// DefaultClassifier returns the process-wide classifier instance.
func DefaultClassifier() *ClassifierService {
	defaultClassifierOnce.Do(func() {
		defaultClassifier = NewClassifierService()
	})
	return defaultClassifier
}

// ensureInit performs the one-time warmup handshake. Warmup is process
// scoped, so it deliberately does not use a request context.
func (s *ClassifierService) ensureInit() error {
	s.initOnce.Do(func() {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, s.baseURL+"/health", nil)
		if err != nil {
			s.initErr = fmt.Errorf("failed to create classifier warmup request: %w", err)
			return
		}
		resp, err := s.client.Do(req)
		if err != nil {
			s.initErr = fmt.Errorf("classifier warmup failed: %w", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			s.initErr = fmt.Errorf("classifier warmup returned status %d", resp.StatusCode)
		}
	})
	return s.initErr
}

type inferenceRequest struct {
	Features []float32 `json:"features"`
}

type inferenceResponse struct {
	Result  int          `json:"result"`
	Anomaly float64      `json:"anomaly"`
	Results []Prediction `json:"results"`
}

func (s *ClassifierService) Classify(ctx context.Context, tensor []float32) (ClassificationResult, error) {
	if err := s.ensureInit(); err != nil {
		return ClassificationResult{}, err
	}

	payload, err := json.Marshal(inferenceRequest{Features: tensor})
	if err != nil {
		return ClassificationResult{}, fmt.Errorf("failed to marshal inference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/classify", bytes.NewReader(payload))
	if err != nil {
		return ClassificationResult{}, fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return ClassificationResult{}, fmt.Errorf("failed to call classifier: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ClassificationResult{}, fmt.Errorf("failed to read classifier response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return ClassificationResult{}, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(body))
	}

	var ir inferenceResponse
	if err := json.Unmarshal(body, &ir); err != nil {
		return ClassificationResult{}, fmt.Errorf("failed to parse classifier JSON: %w", err)
	}
	if ir.Result != 0 {
		return ClassificationResult{}, &ClassificationError{Code: ir.Result}
	}

	return ClassificationResult{Anomaly: ir.Anomaly, Results: ir.Results}, nil
}
