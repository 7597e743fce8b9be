package output

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/castcrawl/internal/model"
)

// maxChartSlices limits the pie chart to the performers with most credits.
const maxChartSlices = 20

// MarkdownWriter buffers records and renders a report on Close.
type MarkdownWriter struct {
	mu      sync.Mutex
	out     io.Writer
	records []model.Association
	closed  bool
}

// NewMarkdownWriter returns a writer rendering to w.
func NewMarkdownWriter(w io.Writer) *MarkdownWriter {
	return &MarkdownWriter{out: w}
}

// Write implements Writer.
func (m *MarkdownWriter) Write(rec model.Association) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.records = append(m.records, rec)
	return nil
}

// Close renders the report.
func (m *MarkdownWriter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true

	md := markdown.NewMarkdown(m.out)
	perPerformer := countBy(m.records, func(a model.Association) string { return a.Actor })
	shared := sharedWorks(m.records)

	md.H1("Cast Associations")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Records", strconv.Itoa(len(m.records))},
			{"Performers", strconv.Itoa(len(perPerformer))},
			{"Works", strconv.Itoa(len(countBy(m.records, func(a model.Association) string { return a.MovieOrTVName })))},
			{"Shared works", strconv.Itoa(len(shared))},
		},
	})
	md.PlainText("")

	if len(m.records) == 0 {
		md.Note("No associations were found.")
		m.writeFooter(md)
		return md.Build()
	}

	m.writePieChart(md, perPerformer)
	m.writeShared(md, shared)

	md.H2("Associations")
	md.PlainText("")
	rows := make([][]string, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, []string{escapeCell(r.Actor), escapeCell(r.MovieOrTVName)})
	}
	md.Table(markdown.TableSet{Header: model.Header(), Rows: rows})
	md.PlainText("")

	m.writeFooter(md)
	return md.Build()
}

// writePieChart writes a mermaid pie chart of credits per performer.
func (m *MarkdownWriter) writePieChart(md *markdown.Markdown, counts []labelCount) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Credits per Performer"),
		piechart.WithShowData(true),
	)
	for i, c := range counts {
		if i == maxChartSlices {
			break
		}
		chart.LabelAndIntValue(strings.ReplaceAll(c.label, `"`, "'"), uint64(c.count)) //nolint:gosec // counts are positive
	}

	md.H2("Credits per Performer")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeShared lists works credited to two or more performers.
func (m *MarkdownWriter) writeShared(md *markdown.Markdown, shared []sharedWork) {
	md.H2("Shared Works")
	md.PlainText("")
	if len(shared) == 0 {
		md.PlainText("No work is shared by two or more performers.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(shared))
	for _, s := range shared {
		rows = append(rows, []string{
			escapeCell(s.work),
			strconv.Itoa(len(s.performers)),
			escapeCell(strings.Join(s.performers, ", ")),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Work", "Performers", "Names"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (m *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [castcrawl](https://github.com/nao1215/castcrawl)*")
}

type labelCount struct {
	label string
	count int
}

// countBy counts records per key, most frequent first, ties by key.
func countBy(records []model.Association, key func(model.Association) string) []labelCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[key(r)]++
	}
	out := make([]labelCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, labelCount{label: k, count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].label < out[j].label
	})
	return out
}

type sharedWork struct {
	work       string
	performers []string
}

// sharedWorks returns works with at least two distinct performers, the
// most shared first.
func sharedWorks(records []model.Association) []sharedWork {
	byWork := make(map[string]map[string]struct{})
	for _, r := range records {
		set, ok := byWork[r.MovieOrTVName]
		if !ok {
			set = make(map[string]struct{})
			byWork[r.MovieOrTVName] = set
		}
		set[r.Actor] = struct{}{}
	}

	var out []sharedWork
	for work, set := range byWork {
		if len(set) < 2 {
			continue
		}
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		sort.Strings(names)
		out = append(out, sharedWork{work: work, performers: names})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].performers) != len(out[j].performers) {
			return len(out[i].performers) > len(out[j].performers)
		}
		return out[i].work < out[j].work
	})
	return out
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
