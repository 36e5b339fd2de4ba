package output

import (
	"fmt"
	"io"

	md "github.com/nao1215/markdown"
)

// MarkdownFormatter writes Data as a GitHub-flavored markdown table, for
// pasting reports into tickets and pull requests.
type MarkdownFormatter struct {
	Title string
}

// Format implements the Formatter interface for markdown output.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	tableData, ok := ToData(data)
	if !ok {
		return fmt.Errorf("markdown output requires tabular data, got %T", data)
	}

	doc := md.NewMarkdown(w)
	if f.Title != "" {
		doc.H2(f.Title)
	}
	rows := tableData.Rows
	if rows == nil {
		rows = [][]string{}
	}
	doc.Table(md.TableSet{
		Header: tableData.Headers,
		Rows:   rows,
	})
	return doc.Build()
}
