package ticket

import (
	"fmt"
	"html/template"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderText writes the on-screen ticket as a terminal table
func (d Document) RenderText(w io.Writer) error {
	t := table.NewWriter()
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	style.Options.SeparateRows = false
	t.SetStyle(style)
	t.SetTitle(d.Brand)

	t.AppendRow(table.Row{"Ticket", d.TicketCode, ""})
	for _, s := range d.Sections {
		t.AppendSeparator()
		t.AppendRow(table.Row{s.Title, "", ""})
		for _, r := range s.Rows {
			t.AppendRow(table.Row{r.Label, r.Detail, r.Amount})
		}
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Total", "", d.Total})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("failed to write ticket: %w", err)
	}
	return nil
}

var printTemplate = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Brand}} - {{.TicketCode}}</title>
<style>
  body { font-family: Georgia, serif; color: #2b2b2b; margin: 32px; }
  .ticket { max-width: 640px; margin: 0 auto; border: 2px solid #8a6d3b; border-radius: 12px; padding: 24px; }
  .brand { text-align: center; margin-bottom: 16px; }
  .brand img { max-height: 72px; }
  .code { text-align: center; font-size: 28px; letter-spacing: 4px; font-family: monospace; margin: 12px 0 24px; }
  h2 { font-size: 14px; text-transform: uppercase; letter-spacing: 2px; color: #8a6d3b; border-bottom: 1px solid #e0d6c3; padding-bottom: 4px; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 12px; }
  td { padding: 4px 0; vertical-align: top; }
  td.amount { text-align: right; white-space: nowrap; }
  .total { display: flex; justify-content: space-between; font-size: 20px; font-weight: bold; border-top: 2px solid #8a6d3b; padding-top: 12px; }
  @media print { body { margin: 0; } .ticket { border-color: #000; } }
</style>
</head>
<body onload="window.print()">
<div class="ticket">
  <div class="brand">{{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.Brand}}">{{else}}<h1>{{.Brand}}</h1>{{end}}</div>
  <div class="code">{{.TicketCode}}</div>
{{- range .Sections}}
  <h2>{{.Title}}</h2>
  <table>
{{- range .Rows}}
    <tr><td>{{.Label}}</td><td>{{.Detail}}</td><td class="amount">{{.Amount}}</td></tr>
{{- end}}
  </table>
{{- end}}
  <div class="total"><span>Total</span><span>{{.Total}}</span></div>
</div>
</body>
</html>
`))

// RenderHTML writes the standalone print document
func (d Document) RenderHTML(w io.Writer) error {
	if err := printTemplate.Execute(w, d); err != nil {
		return fmt.Errorf("failed to render print ticket: %w", err)
	}
	return nil
}
