package batch

import (
	"fmt"
	"os"
	"time"

	json "github.com/json-iterator/go"
)

// ReportEntry represents one sprite in the run report.
type ReportEntry struct {
	Name        string  `json:"name"`
	Type        string  `json:"type,omitempty"`
	Success     bool    `json:"success"`
	Created     bool    `json:"created,omitempty"`
	Error       string  `json:"error,omitempty"`
	Bias        float64 `json:"bias"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	BoundingBox [4]int  `json:"boundingBox"` // x, y, width, height
}

// Report is the summary written after a recalculation run.
type Report struct {
	Policy    string        `json:"policy"`
	Generated time.Time     `json:"generated"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Sprites   []ReportEntry `json:"sprites"`
}

// NewReport builds the report for a finished run.
func NewReport(policy fmt.Stringer, results []Result) Report {
	ok, failed := Summarize(results)
	r := Report{
		Policy:    policy.String(),
		Generated: time.Now().UTC(),
		Succeeded: ok,
		Failed:    failed,
		Sprites:   make([]ReportEntry, len(results)),
	}
	for i, res := range results {
		e := ReportEntry{
			Name:    res.Name,
			Type:    string(res.Type),
			Success: res.Success,
			Created: res.Created,
			Error:   res.Error,
			Bias:    res.Bias,
			Width:   res.Original.X,
			Height:  res.Original.Y,
		}
		if bb := res.BoundingBox; bb != nil {
			e.BoundingBox = [4]int{bb.BoundingX, bb.BoundingY, bb.BoundingWidth, bb.BoundingHeight}
		}
		r.Sprites[i] = e
	}
	return r
}

// WriteReport writes the report as indented JSON.
func WriteReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
