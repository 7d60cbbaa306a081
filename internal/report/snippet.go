package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/polylint/polylint/internal/types"
)

// RenderSnippets prints the offending source line for each violation,
// syntax-highlighted unless noColor is set. Unreadable files and
// out-of-range lines are skipped; snippets are best-effort decoration.
func RenderSnippets(w io.Writer, results []types.RuleResult, noColor bool) {
	for _, r := range results {
		line, ok := readLine(r.Path, r.Line)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s:%d  [%s/%s]\n", r.Path, r.Line, r.Engine, r.Rule)
		if noColor {
			fmt.Fprintf(w, "  %s\n", strings.TrimRight(line, "\n"))
			continue
		}
		fmt.Fprint(w, "  ")
		if err := highlight(w, r.Path, line); err != nil {
			fmt.Fprint(w, strings.TrimRight(line, "\n"))
		}
		fmt.Fprintln(w)
	}
}

func highlight(w io.Writer, path, src string) error {
	lex := lexers.Match(path)
	if lex == nil {
		lex = lexers.Fallback
	}
	it, err := lex.Tokenise(nil, strings.TrimRight(src, "\n"))
	if err != nil {
		return err
	}
	f := formatters.Get("terminal")
	if f == nil {
		f = formatters.Fallback
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	return f.Format(w, style, it)
}

func readLine(path string, n int) (string, bool) {
	if n <= 0 {
		return "", false
	}
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for i := 1; sc.Scan(); i++ {
		if i == n {
			return sc.Text(), true
		}
	}
	return "", false
}
