package export

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header of an exported report.
type Frontmatter struct {
	Title    string   `yaml:"title"`
	Slug     string   `yaml:"slug"`
	Topic    string   `yaml:"topic"`
	Datetime string   `yaml:"datetime"`
	Sources  []string `yaml:"sources"`
	Items    int      `yaml:"items"`
	RunID    string   `yaml:"run_id,omitempty"`
}

type Data struct {
	Frontmatter
	Narrative string
	Document  string
}

//go:embed report.tmpl
var reportTpl string

var compiled = template.Must(template.New("report").Funcs(template.FuncMap{
	"frontmatter": func(d Data) (string, error) {
		b, err := yaml.Marshal(d.Frontmatter)
		return string(b), err
	},
}).Parse(reportTpl))

func Render(d Data) (string, error) {
	d.Narrative = strings.TrimSpace(d.Narrative)
	if d.Document != "" && !strings.HasSuffix(d.Document, "\n") {
		d.Document += "\n"
	}
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
