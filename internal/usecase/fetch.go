package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"logfetch/internal/domain"
)

// EventQuerier is the single page-fetch operation the service needs from the
// log-query client. Defined here for testability.
type EventQuerier interface {
	FilterEvents(ctx context.Context, req domain.PageRequest) (domain.EventPage, error)
}

// FetchService resolves a time window and pages through the log-query API
// until the continuation token runs out.
type FetchService struct {
	events EventQuerier
	now    func() time.Time
}

// FetchInput carries the window selectors and query fields of one fetch.
// Month/Day select calendar mode, StartTime/EndTime select range mode; blank
// selectors mean the default relative mode.
type FetchInput struct {
	LogGroup      string
	Window        string
	Month         string
	Day           string
	StartTime     string
	EndTime       string
	FilterPattern string
}

// FetchOutput is the accumulated result of a completed fetch. Records hold
// every event across all pages in the order the API returned them.
type FetchOutput struct {
	FetchID     string
	Window      domain.TimeWindow
	WindowLabel string
	Records     []domain.LogRecord
}

func NewFetchService(events EventQuerier) (*FetchService, error) {
	if events == nil {
		return nil, errors.New("usecase: event querier must not be nil")
	}
	return &FetchService{events: events, now: time.Now}, nil
}

// Fetch resolves the window, then issues exactly one query per page, carrying
// the previous response's continuation token, until a response returns none.
// Any page failure aborts the whole fetch; nothing fetched so far survives.
func (s *FetchService) Fetch(ctx context.Context, in FetchInput) (FetchOutput, error) {
	group := strings.TrimSpace(in.LogGroup)
	if group == "" {
		return FetchOutput{}, newError(ErrorInvalidInput, "log_group_required", nil)
	}

	window, label, err := resolveWindow(s.now(), in)
	if err != nil {
		return FetchOutput{}, err
	}

	var records []domain.LogRecord
	token := ""
	for {
		page, err := s.events.FilterEvents(ctx, domain.PageRequest{
			LogGroup:      group,
			Window:        window,
			FilterPattern: strings.TrimSpace(in.FilterPattern),
			NextToken:     token,
		})
		if err != nil {
			return FetchOutput{}, newError(ErrorQueryFailure, "filter_log_events_error", err)
		}
		records = append(records, page.Records...)
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	return FetchOutput{
		FetchID:     newUUID(),
		Window:      window,
		WindowLabel: label,
		Records:     records,
	}, nil
}

var newUUID = func() string {
	return uuid.NewString()
}
