package extract

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"testing"
	"wiki-ui-suite/internal/entity"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const peruInfobox = `
<table class="infobox">
  <tbody>
    <tr><th colspan="2">Republic of Peru</th></tr>
    <tr><td colspan="2"><img src="flag.png"></td></tr>
    <tr><th>Capital<br>and largest city</th><td><a href="/wiki/Lima">Lima</a><br>12°2′S 77°1′W</td></tr>
    <tr><th>Currency</th><td>Sol&nbsp;(PEN)</td></tr>
    <tr><th>Official languages</th><td><ul><li>Spanish</li><li>Quechua</li></ul></td></tr>
  </tbody>
</table>`

func TestTableRowsKeepsEveryRow(t *testing.T) {
	rows, err := TableRows(peruInfobox)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, "Republic of Peru", rows[0].LabelText())
	assert.Nil(t, rows[0].Value)

	assert.Nil(t, rows[1].Label)
	require.NotNil(t, rows[1].Value)
	assert.Equal(t, "", *rows[1].Value)

	assert.Equal(t, "Capital\nand largest city", rows[2].LabelText())
	assert.Equal(t, "Lima\n12°2′S 77°1′W", rows[2].ValueText())

	assert.Equal(t, "Sol (PEN)", rows[3].ValueText())
	assert.Equal(t, "Spanish\nQuechua", rows[4].ValueText())
}

func TestValueInTable(t *testing.T) {
	v, ok, err := ValueInTable(peruInfobox, "Currency")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sol (PEN)", v)

	v, ok, err = ValueInTable(peruInfobox, "Capital")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, v, "Lima")

	_, ok, err = ValueInTable(peruInfobox, "Population")
	require.NoError(t, err)
	assert.False(t, ok)

	// the first header matches but has no data cell
	_, ok, err = ValueInTable(peruInfobox, "Republic")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValueInTableSkipsHeaderlessRows(t *testing.T) {
	const table = `<table>
		<tr><td>map.png</td></tr>
		<tr><th>Capital</th><td>Lima</td></tr>
	</table>`

	v, ok, err := ValueInTable(table, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Lima", v)

	rows, err := TableRows(table)
	require.NoError(t, err)

	lv, lok := LookupValue(rows, "")
	assert.Equal(t, ok, lok)
	assert.Equal(t, v, lv)
}

func TestLookupValue(t *testing.T) {
	rows, err := TableRows(peruInfobox)
	require.NoError(t, err)

	v, ok := LookupValue(rows, "Currency")
	assert.True(t, ok)
	assert.Equal(t, "Sol (PEN)", v)

	_, ok = LookupValue(rows, "Anthem")
	assert.False(t, ok)

	// label-less rows are skipped even for an empty search label
	v, ok = LookupValue(rows[1:], "")
	assert.True(t, ok)
	assert.Contains(t, v, "Lima")
}

func TestArchiveLinks(t *testing.T) {
	fragment := `<dl>
		<dt><a href="/wiki/2019" title="2019">2019</a></dt>
		<dd><a href="/wiki/Portal:Current_events/January_2019" title="Portal:Current events/January 2019">January</a></dd>
		<dd><a href="/wiki/Portal:Current_events/February_2019" title="Portal:Current events/February 2019">February</a></dd>
	</dl>`
	base, err := url.Parse("https://en.wikipedia.org/wiki/Portal:Current_events")
	require.NoError(t, err)

	links, err := ArchiveLinks(fragment, base)
	require.NoError(t, err)
	require.Len(t, links, 3)

	assert.Equal(t, entity.ArchiveLink{Href: "https://en.wikipedia.org/wiki/2019", Title: "2019", Text: "2019"}, links[0])
	assert.Equal(t, "https://en.wikipedia.org/wiki/Portal:Current_events/February_2019", links[2].Href)
	assert.Equal(t, "February", links[2].Text)

	raw, err := ArchiveLinks(fragment, nil)
	require.NoError(t, err)
	assert.Equal(t, "/wiki/2019", raw[0].Href)
}

func TestSplitSuggestion(t *testing.T) {
	title, summary := SplitSuggestion("Buster Keaton\nAmerican actor (1895–1966)")
	assert.Equal(t, "Buster Keaton", title)
	assert.Equal(t, "American actor (1895–1966)", summary)

	title, summary = SplitSuggestion("Bust")
	assert.Equal(t, "Bust", title)
	assert.Equal(t, "", summary)

	title, summary = SplitSuggestion("a\nb\nc")
	assert.Equal(t, "a", title)
	assert.Equal(t, "", summary)
}

func TestRenderTextSkipsScripts(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div id="x">Hello<script>var a = 1;</script> <b>world</b><p>next   line</p></div>`))
	require.NoError(t, err)

	assert.Equal(t, "Hello world\nnext line", RenderText(doc.Find("#x")))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a b\nc", NormalizeText("  a  b \n\n\t c  "))
	assert.Equal(t, "", NormalizeText(" \n "))
}

type genRow struct {
	label *string
	value *string
}

func drawCell(t *rapid.T, name string) *string {
	if !rapid.Bool().Draw(t, name+"_present") {
		return nil
	}

	s := rapid.StringMatching(`[A-Za-z0-9]{1,8}( [A-Za-z0-9]{1,8}){0,2}`).Draw(t, name)

	return &s
}

func TestTableRowsPreservesShape_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(t, "rows")
		gen := make([]genRow, n)

		var b strings.Builder
		b.WriteString("<table><tbody>")

		for i := range gen {
			gen[i] = genRow{label: drawCell(t, fmt.Sprintf("th%d", i)), value: drawCell(t, fmt.Sprintf("td%d", i))}

			b.WriteString("<tr>")
			if gen[i].label != nil {
				b.WriteString("<th>" + html.EscapeString(*gen[i].label) + "</th>")
			}
			if gen[i].value != nil {
				b.WriteString("<td>" + html.EscapeString(*gen[i].value) + "</td>")
			}
			b.WriteString("</tr>")
		}

		b.WriteString("</tbody></table>")

		rows, err := TableRows(b.String())
		if err != nil {
			t.Fatalf("TableRows: %v", err)
		}

		if len(rows) != n {
			t.Fatalf("expected %d rows, got %d", n, len(rows))
		}

		for i, row := range rows {
			if (row.Label == nil) != (gen[i].label == nil) {
				t.Fatalf("row %d: label presence mismatch", i)
			}
			if (row.Value == nil) != (gen[i].value == nil) {
				t.Fatalf("row %d: value presence mismatch", i)
			}
			if row.Label != nil && *row.Label != *gen[i].label {
				t.Fatalf("row %d: label %q, want %q", i, *row.Label, *gen[i].label)
			}
			if row.Value != nil && *row.Value != *gen[i].value {
				t.Fatalf("row %d: value %q, want %q", i, *row.Value, *gen[i].value)
			}
		}
	})
}
