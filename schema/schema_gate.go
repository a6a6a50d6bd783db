package schema

// ConditionResult is the evaluated outcome of one quality gate condition.
type ConditionResult struct {
	Metric  string   `json:"metric"`
	Op      Operator `json:"op"`
	Period  int      `json:"period,omitempty"`
	Error   string   `json:"error,omitempty"`
	Warning string   `json:"warning,omitempty"`
	Actual  string   `json:"actual,omitempty"`
	Level   Level    `json:"level"`
	Text    string   `json:"-"`
}

// GateResult is the verdict of a quality gate on the tree root.
type GateResult struct {
	Name       string            `json:"name"`
	Level      Level             `json:"level"`
	Text       string            `json:"text"`
	Conditions []ConditionResult `json:"conditions"`
	Previous   Level             `json:"previous,omitempty"` // level of the last processed analysis
}

// GateDetails is the payload stored in the quality gate details measure.
type GateDetails struct {
	Level      Level             `json:"level"`
	Conditions []ConditionResult `json:"conditions"`
}
