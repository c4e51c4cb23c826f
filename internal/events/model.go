package events

import "encoding/json"

const (
	DefaultSource     = "aws.lambda"
	DefaultDetailType = "failure"
	DefaultErrorType  = "UnknownError"
)

// Event is one failure notification delivered by the event source.
// Every field is optional; the accessor methods apply defaults.
type Event struct {
	ID         string `json:"id,omitempty"`
	Source     string `json:"source,omitempty"`
	DetailType string `json:"detail-type,omitempty"`
	Detail     Detail `json:"detail"`
}

type Detail struct {
	ErrorType string `json:"errorType,omitempty"`
}

func (e Event) SourceOrDefault() string {
	return orDefault(e.Source, DefaultSource)
}

func (e Event) DetailTypeOrDefault() string {
	return orDefault(e.DetailType, DefaultDetailType)
}

func (e Event) ErrorTypeOrDefault() string {
	return orDefault(e.Detail.ErrorType, DefaultErrorType)
}

// UnmarshalJSON never fails on well-formed JSON. Fields with the wrong
// type, nulls and a non-object detail all decode as absent.
func (e *Event) UnmarshalJSON(data []byte) error {
	*e = Event{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	e.ID = stringField(raw, "id")
	e.Source = stringField(raw, "source")
	e.DetailType = stringField(raw, "detail-type")
	if d, ok := raw["detail"]; ok {
		var detail map[string]json.RawMessage
		if err := json.Unmarshal(d, &detail); err == nil {
			e.Detail.ErrorType = stringField(detail, "errorType")
		}
	}
	return nil
}

func stringField(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
