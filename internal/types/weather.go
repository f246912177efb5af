package types

// Label is one of the five weather-severity classifications a model response
// is mapped onto.
type Label string

// Labels in matching priority order. The order is significant: it is both the
// order presented to the model and the order the matcher tests them in.
const (
	LabelNoRain        Label = "no rain"
	LabelLightRain     Label = "light rain"
	LabelShowers       Label = "showers"
	LabelRain          Label = "rain"
	LabelThunderstorms Label = "thunderstorms"
)

// Labels returns the label vocabulary in priority order. A fresh slice is
// returned on every call.
func Labels() []Label {
	return []Label{
		LabelNoRain,
		LabelLightRain,
		LabelShowers,
		LabelRain,
		LabelThunderstorms,
	}
}

// DateKeyLayout is the layout of the table partition key.
const DateKeyLayout = "2006-01-02"

// DatedRecord is one stored sentence. Date is the partition key and CreatedAt
// the sort key; several records may share a date, the newest one wins.
type DatedRecord struct {
	Date      string `dynamodbav:"date" json:"date"`
	CreatedAt string `dynamodbav:"created_at" json:"created_at"`
	ID        string `dynamodbav:"id,omitempty" json:"id,omitempty"`
	Sentence  string `dynamodbav:"sentence" json:"sentence"`
}

// unexpectedResponse is reported when the model answer matched no label.
const unexpectedResponse = "unexpected response"

// Outcome is the result of one classification run.
type Outcome struct {
	Date     string `json:"date"`
	Label    Label  `json:"label,omitempty"`
	Matched  bool   `json:"matched"`
	Response string `json:"response"`
}

// String returns the matched label, or "unexpected response" when nothing
// matched.
func (o Outcome) String() string {
	if !o.Matched {
		return unexpectedResponse
	}
	return string(o.Label)
}
