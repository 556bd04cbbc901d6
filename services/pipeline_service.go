package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"backend/models"
	"backend/utils"

	"golang.org/x/oauth2"
)

// ImageArchiver stores the original photo somewhere durable and returns a
// public URL for it.
type ImageArchiver interface {
	ArchiveImage(ctx context.Context, data []byte) (string, error)
}

// PipelineService runs the photo-to-log pipeline for one request:
// preprocess, classify, pick a label, authenticate, search, fetch detail,
// map, persist. Steps run strictly in that order, each attempted once, and
// the first failure aborts the run. Nothing is written to the store before
// the full record exists.
type PipelineService struct {
	classifier Classifier
	provider   NutritionProvider
	store      LogStore

	// optional collaborators, safe to leave nil
	Archiver ImageArchiver
	Bus      *LogBus
}

func NewPipelineService(classifier Classifier, provider NutritionProvider, store LogStore) *PipelineService {
	return &PipelineService{classifier: classifier, provider: provider, store: store}
}

// Run takes the raw uploaded bytes and returns the persisted log entry.
// Every failure is a *PipelineError.
func (p *PipelineService) Run(ctx context.Context, imageData []byte) (*models.NutritionLog, error) {
	tensor, err := utils.PreprocessImage(imageData)
	if err != nil {
		return nil, failStage(StagePreprocess, http.StatusInternalServerError, "Failed to process image", err)
	}

	result, err := p.classifier.Classify(ctx, tensor)
	if err != nil {
		var ce *ClassificationError
		if errors.As(err, &ce) {
			return nil, failStage(StageClassify, http.StatusBadRequest, "No usable food identified", err)
		}
		return nil, failStage(StageClassify, http.StatusInternalServerError, "Classifier unavailable", err)
	}

	label, err := result.TopLabel()
	if err != nil {
		return nil, failStage(StageSelectLabel, http.StatusBadRequest, "Food name is required", err)
	}

	token, err := p.provider.Authenticate(ctx)
	if err != nil {
		return nil, failStage(StageAuth, authStatus(err), "Failed to authenticate with nutrition provider", err)
	}

	foodID, err := p.provider.SearchFood(ctx, token, label)
	if err != nil {
		return nil, providerFailure(StageSearch, err)
	}

	detail, err := p.provider.GetFoodDetail(ctx, token, foodID)
	if err != nil {
		return nil, providerFailure(StageDetail, err)
	}

	entry := MapServing(detail.FoodName, detail.Servings[0])

	if p.Archiver != nil {
		// best effort: the log entry is still written without a URL
		if imageURL, err := p.Archiver.ArchiveImage(ctx, imageData); err == nil {
			entry.ImageURL = imageURL
		}
	}

	if err := p.store.Create(&entry); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrFoodNameRequired) {
			status = http.StatusBadRequest
		}
		return nil, failStage(StagePersist, status, "Failed to save nutrition log", err)
	}

	if p.Bus != nil {
		p.Bus.Publish(&entry)
	}
	return &entry, nil
}

// providerFailure distinguishes empty results, provider error statuses,
// malformed payloads and transport failures.
func providerFailure(stage Stage, err error) *PipelineError {
	switch {
	case errors.Is(err, ErrFoodNotFound):
		return failStage(stage, http.StatusNotFound, "Food not found", err)
	case errors.Is(err, ErrNoServing):
		return failStage(stage, http.StatusNotFound, "No serving information found", err)
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
		return failStage(stage, ue.Status, "Nutrition provider request failed", err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return failStage(stage, http.StatusInternalServerError, "Malformed response from nutrition provider", err)
	}

	return failStage(stage, http.StatusInternalServerError, "No response received from nutrition provider", err)
}

// authStatus surfaces the provider's own status code for a rejected
// credential exchange when one exists.
func authStatus(err error) int {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode > 0 {
		return re.Response.StatusCode
	}
	return http.StatusInternalServerError
}
