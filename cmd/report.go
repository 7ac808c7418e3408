package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dzjyyds666/cascade/parse/cascade"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// useColor 判断是否输出颜色, auto 时只有终端才输出
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type printer struct {
	w     io.Writer
	err   func(string, ...any) string
	warn  func(string, ...any) string
	path  func(string, ...any) string
	plus  func(string, ...any) string
	minus func(string, ...any) string
}

func newPrinter(w io.Writer, mode string) *printer {
	on := useColor(mode, w)
	paint := func(attrs ...color.Attribute) func(string, ...any) string {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintfFunc()
	}
	return &printer{
		w:     w,
		err:   paint(color.FgRed, color.Bold),
		warn:  paint(color.FgYellow),
		path:  paint(color.FgCyan),
		plus:  paint(color.FgGreen),
		minus: paint(color.FgRed),
	}
}

// diagnostics 按 file:line:col 的格式输出诊断信息
func (p *printer) diagnostics(file string, d *cascade.Diagnostics) {
	for _, di := range d.Items {
		sev := p.err("error")
		if di.Severity == cascade.SeverityWarning {
			sev = p.warn("warning")
		}
		fmt.Fprintf(p.w, "%s:%s: %s: %s: %s\n", p.path(file), di.Pos, sev, di.Code, di.Context)
	}
}

func (p *printer) summary(d *cascade.Diagnostics) {
	fmt.Fprintf(p.w, "%s, %s\n",
		p.err("%d error(s)", d.Errors()),
		p.warn("%d warning(s)", d.Warnings()))
}

// lineDiff 按行比较两段文本
func lineDiff(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// diff 输出行差异, 返回是否有不同
func (p *printer) diff(diffs []diffmatchpatch.Diff) bool {
	changed := false
	for _, d := range diffs {
		lines := strings.SplitAfter(d.Text, "\n")
		for _, l := range lines {
			if l == "" {
				continue
			}
			l = strings.TrimSuffix(l, "\n")
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				changed = true
				fmt.Fprintln(p.w, p.plus("+ %s", l))
			case diffmatchpatch.DiffDelete:
				changed = true
				fmt.Fprintln(p.w, p.minus("- %s", l))
			default:
				fmt.Fprintf(p.w, "  %s\n", l)
			}
		}
	}
	return changed
}
