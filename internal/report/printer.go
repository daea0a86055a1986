package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Print для StudentRow (один студент)
func (r StudentRow) Print(w io.Writer) {
	cyan := color.New(color.FgCyan).SprintFunc()
	white := color.New(color.FgWhite).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(w, cyan("\n🎓 СТУДЕНТ"), white(r.StudentName))
	fmt.Fprintf(w, "🌐 URL: %s\n", white(r.BaseURL))

	for _, v := range r.Values {
		fmt.Fprintf(w, "  %s %-45s %s\n", boolIcon(v.OK), v.ID, grayf("%s", strconvEllipsis(v.Text, 40)))
	}

	failed := r.FailedStatements()
	if len(failed) > 0 {
		fmt.Fprintln(w, red("  ⚠️  Проваленные проверки:"))
		for _, s := range failed {
			fmt.Fprintf(w, "    • %s\n", s.Message)
		}
	}
	fmt.Fprintf(w, "  Итог: %s\n", gradeLabel(r.Passed()))
}

// Print для Summary (весь список)
func (s Summary) Print(w io.Writer) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	white := color.New(color.FgWhite).SprintFunc()

	for _, row := range s.Rows {
		row.Print(w)
	}

	fmt.Fprintln(w, "\n"+cyan("📊 СВОДКА ПО ГРУППЕ"))
	fmt.Fprintln(w, strings.Repeat("─", 65))

	t := NewTable(w)
	t.AppendHeader(table.Row{"#", ColumnStudentName, ColumnBaseURL, "Checks", ColumnFinalGrade})
	for i, row := range s.Rows {
		passedChecks := len(row.Statements) - len(row.FailedStatements())
		t.AppendRow(table.Row{
			i + 1,
			row.StudentName,
			strconvEllipsis(row.BaseURL, 40),
			fmt.Sprintf("%d/%d", passedChecks, len(row.Statements)),
			gradeLabel(row.Passed()),
		})
	}
	t.Render()

	fmt.Fprintf(w, "Проверено: %s студентов, Pass: %s, Fail: %s\n",
		white(strconv.Itoa(len(s.Rows))),
		green(strconv.Itoa(s.Passed())),
		red(strconv.Itoa(s.Failed())),
	)

	if freq := s.commonFailures(); len(freq) > 0 {
		fmt.Fprintln(w, "\n  📉 Самые частые ошибки:")
		for i := 0; i < 5 && i < len(freq); i++ {
			fmt.Fprintf(w, "    • %s (%dx)\n", freq[i].Rule, freq[i].Count)
		}
	}

	fmt.Fprintln(w, strings.Repeat("─", 65))
}

type ruleCount struct {
	Rule  string
	Count int
}

// commonFailures - сколько студентов провалили каждое правило
func (s Summary) commonFailures() []ruleCount {
	counts := make(map[string]int)
	for _, row := range s.Rows {
		seen := make(map[string]bool)
		for _, st := range row.FailedStatements() {
			if !seen[st.Rule] {
				seen[st.Rule] = true
				counts[st.Rule]++
			}
		}
	}
	var sorted []ruleCount
	for rule, n := range counts {
		sorted = append(sorted, ruleCount{rule, n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count == sorted[j].Count {
			return sorted[i].Rule < sorted[j].Rule
		}
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}

// NewTable - таблица go-pretty в едином стиле
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func gradeLabel(passed bool) string {
	if passed {
		return color.GreenString("Pass")
	}
	return color.RedString("Fail")
}

func boolIcon(ok bool) string {
	if ok {
		return color.GreenString("✅")
	}
	return color.RedString("❌")
}

func grayf(format string, args ...interface{}) string {
	return color.New(color.FgHiBlack).Sprintf(format, args...)
}

func strconvEllipsis(s string, maximum int) string {
	runes := []rune(s)
	if len(runes) <= maximum {
		return s
	}
	return string(runes[:maximum-3]) + "..."
}
