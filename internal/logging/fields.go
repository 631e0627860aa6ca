package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldLeague     = "league"
	FieldSource     = "source"
	FieldURL        = "url"
	FieldStatusCode = "status_code"
	FieldAttempt    = "attempt"
	FieldDate       = "date"
	FieldEventID    = "event_id"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldDelayMS    = "delay_ms"
)
