package domain

// LogRecord is a single event returned by the log-query API. IngestionTimeMS
// is zero when the API omitted the ingestion timestamp.
type LogRecord struct {
	TimestampMS     int64
	IngestionTimeMS int64
	Message         string
}

// PageRequest identifies one call against the log-query API. NextToken is
// empty on the first page and carries the previous response's continuation
// token afterwards.
type PageRequest struct {
	LogGroup      string
	Window        TimeWindow
	FilterPattern string
	NextToken     string
}

// EventPage is one response page: records in the order the API returned them
// plus the continuation token for the next page. An empty token means the
// listing is exhausted.
type EventPage struct {
	Records   []LogRecord
	NextToken string
}

// LogGroup is one selectable entry in the log-group catalog.
type LogGroup struct {
	Name string
}
