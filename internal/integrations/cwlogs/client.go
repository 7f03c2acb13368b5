package cwlogs

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"

	"logfetch/internal/domain"
)

// cloudwatchlogsAPI is the minimal CloudWatch Logs interface required by
// Client. *cloudwatchlogs.Client from aws-sdk-go-v2 satisfies this interface.
// Defined here for testability.
type cloudwatchlogsAPI interface {
	FilterLogEvents(ctx context.Context, in *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
	DescribeLogGroups(ctx context.Context, in *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
}

// Client wraps the CloudWatch Logs API behind the domain page types.
type Client struct {
	api cloudwatchlogsAPI
}

// New creates a Client with the given CloudWatch Logs API implementation.
func New(api cloudwatchlogsAPI) (*Client, error) {
	if api == nil {
		return nil, errors.New("cwlogs: api must not be nil")
	}
	return &Client{api: api}, nil
}

// FilterEvents fetches one page of events for the request's window. The
// filter pattern and continuation token are only sent when non-empty; an
// empty NextToken in the returned page means the listing is exhausted.
func (c *Client) FilterEvents(ctx context.Context, req domain.PageRequest) (domain.EventPage, error) {
	in := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(req.LogGroup),
		StartTime:    aws.Int64(req.Window.StartMS),
		EndTime:      aws.Int64(req.Window.EndMS),
	}
	if req.FilterPattern != "" {
		in.FilterPattern = aws.String(req.FilterPattern)
	}
	if req.NextToken != "" {
		in.NextToken = aws.String(req.NextToken)
	}

	out, err := c.api.FilterLogEvents(ctx, in)
	if err != nil {
		return domain.EventPage{}, fmt.Errorf("cwlogs: FilterEvents %q: %w", req.LogGroup, err)
	}

	page := domain.EventPage{
		Records:   make([]domain.LogRecord, 0, len(out.Events)),
		NextToken: aws.ToString(out.NextToken),
	}
	for _, e := range out.Events {
		page.Records = append(page.Records, domain.LogRecord{
			TimestampMS:     aws.ToInt64(e.Timestamp),
			IngestionTimeMS: aws.ToInt64(e.IngestionTime),
			Message:         aws.ToString(e.Message),
		})
	}
	return page, nil
}

// ListLogGroups pages through DescribeLogGroups and returns every group name.
func (c *Client) ListLogGroups(ctx context.Context) ([]domain.LogGroup, error) {
	var groups []domain.LogGroup
	var token *string
	for {
		out, err := c.api.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{NextToken: token})
		if err != nil {
			return nil, fmt.Errorf("cwlogs: ListLogGroups: %w", err)
		}
		for _, g := range out.LogGroups {
			groups = append(groups, domain.LogGroup{Name: aws.ToString(g.LogGroupName)})
		}
		if out.NextToken == nil {
			return groups, nil
		}
		token = out.NextToken
	}
}
