package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/mesa-desk/mesa/internal/model"
)

// RenderHTML produces the printable report document.
func RenderHTML(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderRequestHTML produces the printable document for a single request,
// including its step trail and comments. The request must be loaded with its
// associations.
func RenderRequestHTML(req *model.Request) ([]byte, error) {
	var buf bytes.Buffer
	if err := requestTemplate.Execute(&buf, req); err != nil {
		return nil, fmt.Errorf("failed to render request document: %w", err)
	}
	return buf.Bytes(), nil
}

var requestTemplate = template.Must(template.New("request").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Request #{{.ID}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 2em; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: 0.3em; }
dl { display: grid; grid-template-columns: 10em 1fr; gap: 0.3em 1em; }
dt { font-weight: bold; }
table { border-collapse: collapse; width: 100%; margin-top: 1em; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; font-size: 13px; }
th { background: #f0f0f0; }
</style>
</head>
<body>
<h1>Request #{{.ID}}</h1>
<dl>
  <dt>Status</dt><dd>{{.Status}}</dd>
  <dt>Priority</dt><dd>{{.Priority}}</dd>
  {{if .Category}}<dt>Category</dt><dd>{{.Category}}{{if .SubCategory}} / {{.SubCategory}}{{end}}</dd>{{end}}
  <dt>Requester</dt><dd>{{.Requester.Name}}</dd>
  {{if .AssignedTo}}<dt>Assigned to</dt><dd>{{.AssignedTo.Name}}</dd>{{end}}
  <dt>Created</dt><dd>{{.CreatedAt.Format "2006-01-02 15:04 UTC"}}</dd>
  {{if .DueDate}}<dt>Due</dt><dd>{{.DueDate.Format "2006-01-02"}}</dd>{{end}}
  {{if .CompletedAt}}<dt>Completed</dt><dd>{{.CompletedAt.Format "2006-01-02 15:04 UTC"}}</dd>{{end}}
</dl>
<p>{{.Description}}</p>
{{if .Data}}
<h2>Details</h2>
<table>
<thead><tr><th>Name</th><th>Value</th></tr></thead>
<tbody>
{{range .Data}}<tr><td>{{.Name}}</td><td>{{.Value}}</td></tr>
{{end}}
</tbody>
</table>
{{end}}
<h2>Steps</h2>
<table>
<thead><tr><th>#</th><th>Step</th><th>Type</th><th>Status</th><th>Completed</th><th>Notes</th></tr></thead>
<tbody>
{{range .Steps}}
<tr>
  <td>{{.Order}}</td>
  <td>{{.StepName}}</td>
  <td>{{.StepType}}</td>
  <td>{{.Status}}</td>
  <td>{{if .CompletedAt}}{{.CompletedAt.Format "2006-01-02 15:04"}}{{end}}</td>
  <td>{{if .Notes}}{{.Notes}}{{end}}</td>
</tr>
{{end}}
</tbody>
</table>
{{if .Comments}}
<h2>Comments</h2>
<table>
<thead><tr><th>When</th><th>Author</th><th>Comment</th></tr></thead>
<tbody>
{{range .Comments}}
<tr>
  <td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
  <td>{{.User.Name}}</td>
  <td>{{.Content}}</td>
</tr>
{{end}}
</tbody>
</table>
{{end}}
</body>
</html>
`))

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"fmtHours": func(h float64) string { return fmt.Sprintf("%.1f", h) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Requests Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 2em; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: 0.3em; }
table { border-collapse: collapse; width: 100%; margin-top: 1em; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; font-size: 13px; }
th { background: #f0f0f0; }
.summary { display: flex; gap: 2em; margin: 1em 0; }
.summary div { background: #f7f7f7; padding: 0.8em 1.2em; border-radius: 4px; }
.summary strong { display: block; font-size: 20px; }
</style>
</head>
<body>
<h1>Requests Report</h1>
<p>Generated at {{.GeneratedAt.Format "2006-01-02 15:04 UTC"}}</p>
{{if .Filter.StartDate}}<p>From {{.Filter.StartDate.Format "2006-01-02"}}{{if .Filter.EndDate}} to {{.Filter.EndDate.Format "2006-01-02"}}{{end}}</p>{{end}}
<div class="summary">
  <div><strong>{{.Summary.TotalRequests}}</strong> total requests</div>
  <div><strong>{{.Summary.CompletedRequests}}</strong> completed</div>
  <div><strong>{{fmtHours .Summary.AvgResolutionHours}}</strong> avg resolution hours</div>
</div>
<table>
<thead>
<tr><th>ID</th><th>Description</th><th>Status</th><th>Priority</th><th>Category</th><th>Requester</th><th>Assigned To</th><th>Created</th><th>Completed</th></tr>
</thead>
<tbody>
{{range .Requests}}
<tr>
  <td>{{.ID}}</td>
  <td>{{.Description}}</td>
  <td>{{.Status}}</td>
  <td>{{.Priority}}</td>
  <td>{{if .Category}}{{.Category}}{{end}}</td>
  <td>{{.Requester.Name}}</td>
  <td>{{if .AssignedTo}}{{.AssignedTo.Name}}{{end}}</td>
  <td>{{.CreatedAt.Format "2006-01-02"}}</td>
  <td>{{if .CompletedAt}}{{.CompletedAt.Format "2006-01-02"}}{{end}}</td>
</tr>
{{end}}
</tbody>
</table>
</body>
</html>
`))
