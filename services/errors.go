package services

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step a failure originated from.
type Stage string

const (
	StagePreprocess  Stage = "preprocess"
	StageClassify    Stage = "classify"
	StageSelectLabel Stage = "select_label"
	StageAuth        Stage = "authenticate"
	StageSearch      Stage = "search"
	StageDetail      Stage = "detail"
	StagePersist     Stage = "persist"
)

var (
	ErrNoLabel      = errors.New("no classification labels returned")
	ErrFoodNotFound = errors.New("food not found")
	ErrNoServing    = errors.New("no serving information found")
)

// ClassificationError reports a non-zero status from the inference run.
type ClassificationError struct {
	Code int
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed (err code: %d)", e.Code)
}

// UpstreamError means the nutrition provider answered, but with an error
// status. Kept separate from transport failures so the two surface
// differently to the client.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("nutrition provider returned status %d: %s", e.Status, e.Body)
}

// PipelineError ties a failed stage to the HTTP answer the handler should
// give. Every failure escaping PipelineService.Run is one of these.
type PipelineError struct {
	Stage   Stage
	Status  int
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func failStage(stage Stage, status int, message string, err error) *PipelineError {
	return &PipelineError{Stage: stage, Status: status, Message: message, Err: err}
}
