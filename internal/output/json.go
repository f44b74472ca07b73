package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/prdash/internal/model"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

func (f *JSONFormatter) encode(v any, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// FormatPRs outputs a pull request list as JSON
func (f *JSONFormatter) FormatPRs(list PRList, w io.Writer) error {
	return f.encode(list, w)
}

// FormatDashboard outputs the dashboard as JSON
func (f *JSONFormatter) FormatDashboard(d Dashboard, w io.Writer) error {
	if d.PullRequests == nil {
		d.PullRequests = []model.PullRequest{}
	}
	return f.encode(d, w)
}
