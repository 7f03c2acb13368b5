package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"logfetch/internal/usecase"
)

// FetchUseCase is the operation the handler drives. Defined here for
// testability.
type FetchUseCase interface {
	Fetch(ctx context.Context, in usecase.FetchInput) (usecase.FetchOutput, error)
}

// Handler adapts an API Gateway proxy request to the fetch use case.
type Handler struct {
	uc FetchUseCase
}

func NewHandler(uc FetchUseCase) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: fetch use case must not be nil")
	}
	return &Handler{uc: uc}, nil
}

type fetchRequest struct {
	LogGroup      string `json:"logGroup"`
	Window        string `json:"window"`
	Month         string `json:"month"`
	Day           string `json:"day"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	FilterPattern string `json:"filterPattern"`
}

type windowBody struct {
	StartMS int64 `json:"startMs"`
	EndMS   int64 `json:"endMs"`
}

type eventBody struct {
	TimestampMS     int64  `json:"timestampMs"`
	IngestionTimeMS int64  `json:"ingestionTimeMs,omitempty"`
	Message         string `json:"message"`
}

type fetchResponse struct {
	FetchID string      `json:"fetchId"`
	Count   int         `json:"count"`
	Window  windowBody  `json:"window"`
	Events  []eventBody `json:"events"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Handle runs one fetch. The response echoes the invocation's fetch id in an
// X-Fetch-Id header; use-case error codes map to HTTP statuses.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req fetchRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return reply(http.StatusBadRequest, uuid.NewString(), errorResponse{
			Error:  string(usecase.ErrorInvalidInput),
			Reason: "malformed_body",
		}), nil
	}

	out, err := h.uc.Fetch(ctx, usecase.FetchInput{
		LogGroup:      req.LogGroup,
		Window:        req.Window,
		Month:         req.Month,
		Day:           req.Day,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		FilterPattern: req.FilterPattern,
	})
	if err != nil {
		var ucErr *usecase.Error
		if errors.As(err, &ucErr) {
			return reply(statusFor(ucErr.Code), uuid.NewString(), errorResponse{
				Error:  string(ucErr.Code),
				Reason: ucErr.Reason,
			}), nil
		}
		return reply(http.StatusInternalServerError, uuid.NewString(), errorResponse{
			Error:  string(usecase.ErrorQueryFailure),
			Reason: "unexpected_error",
		}), nil
	}

	body := fetchResponse{
		FetchID: out.FetchID,
		Count:   len(out.Records),
		Window:  windowBody{StartMS: out.Window.StartMS, EndMS: out.Window.EndMS},
		Events:  make([]eventBody, 0, len(out.Records)),
	}
	for _, rec := range out.Records {
		body.Events = append(body.Events, eventBody{
			TimestampMS:     rec.TimestampMS,
			IngestionTimeMS: rec.IngestionTimeMS,
			Message:         rec.Message,
		})
	}
	return reply(http.StatusOK, out.FetchID, body), nil
}

func statusFor(code usecase.ErrorCode) int {
	switch code {
	case usecase.ErrorInvalidInput, usecase.ErrorInvalidWindow:
		return http.StatusBadRequest
	case usecase.ErrorQueryFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func reply(status int, fetchID string, body any) events.APIGatewayProxyResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		raw = []byte(`{"error":"QUERY_FAILURE","reason":"encode_response"}`)
		status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"X-Fetch-Id":   fetchID,
		},
		Body: string(raw),
	}
}
