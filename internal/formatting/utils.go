package formatting

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ShayHill/todoist-bot/internal/orchestrator"
)

// PrettyJSON formats any value as indented JSON for human-readable display.
// It handles marshaling errors gracefully by falling back to fmt.Sprintf.
//
// Example:
//
//	data := map[string]interface{}{"name": "test", "value": 42}
//	fmt.Println(formatting.PrettyJSON(data))
//	// Output:
//	// {
//	//   "name": "test",
//	//   "value": 42
//	// }
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// joinOrDash joins labels with ", " or returns "-" for none.
func joinOrDash(labels []string) string {
	if len(labels) == 0 {
		return "-"
	}
	return strings.Join(labels, ", ")
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}

// cycleReportView adds the error fields CycleReport leaves out of its encodings.
type cycleReportView struct {
	orchestrator.CycleReport `yaml:",inline"`

	FailureMessages      []string `json:"failures,omitempty" yaml:"failures,omitempty"`
	LabelFailureMessages []string `json:"labelFailures,omitempty" yaml:"labelFailures,omitempty"`
	Error                string   `json:"error,omitempty" yaml:"error,omitempty"`
}

func newCycleReportView(r orchestrator.CycleReport) cycleReportView {
	v := cycleReportView{CycleReport: r}
	for _, f := range r.Failures {
		v.FailureMessages = append(v.FailureMessages, f.Error())
	}
	for _, err := range r.LabelFailures {
		v.LabelFailureMessages = append(v.LabelFailureMessages, err.Error())
	}
	if r.Err != nil {
		v.Error = r.Err.Error()
	}
	return v
}
