// Package diffing computes line diffs and size/line deltas between two
// versions of a file's content.
package diffing

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

const (
	// binarySniffLen is how many leading bytes are inspected for a NUL
	// byte when classifying content as binary.
	binarySniffLen = 8000

	// maxDiffLines bounds the rendered diff so a huge rewrite doesn't
	// bloat the change log.
	maxDiffLines = 200

	// maxLCSCells bounds the LCS matrix. Beyond this the diff degrades
	// to a full replace instead of allocating hundreds of MB.
	maxLCSCells = 4 << 20
)

// Result contains the outcome of comparing two contents.
type Result struct {
	Text       string // marked diff lines, empty when nothing changed or content is binary
	SizeDelta  int64  // byte length of new minus old, always meaningful
	LinesDelta *int   // nil when either side is not decodable as text
}

// Engine provides diffing capabilities.
type Engine struct {
	contextLines int
}

// NewEngine creates a new diff engine with the given number of context lines.
func NewEngine(contextLines int) *Engine {
	return &Engine{contextLines: contextLines}
}

// Compare diffs oldContent against newContent. For a freshly created file
// callers pass empty oldContent, so the whole file shows up as additions.
func (e *Engine) Compare(oldContent, newContent []byte) Result {
	res := Result{SizeDelta: int64(len(newContent)) - int64(len(oldContent))}

	if IsBinary(oldContent) || IsBinary(newContent) {
		return res
	}

	oldLines := countLines(oldContent)
	newLines := countLines(newContent)
	delta := newLines - oldLines
	res.LinesDelta = &delta

	if bytes.Equal(oldContent, newContent) {
		return res
	}

	res.Text = e.render(diffOps(splitLines(oldContent), splitLines(newContent)))
	return res
}

// IsBinary reports whether content should be treated as non-text: a NUL
// byte in the leading bytes, or invalid UTF-8.
func IsBinary(content []byte) bool {
	sniff := content
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return true
	}
	return !utf8.Valid(content)
}

// Lines returns the newline-delimited line count of content, or nil when
// the content is not decodable as text.
func Lines(content []byte) *int {
	if IsBinary(content) {
		return nil
	}
	n := countLines(content)
	return &n
}

// countLines counts newline-delimited lines; a trailing fragment without a
// final newline still counts as a line.
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte{'\n'})
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

type opKind int

const (
	opContext opKind = iota
	opAdd
	opDel
)

type op struct {
	kind opKind
	text string
}

// diffOps produces a line-level edit script via the classic LCS matrix.
func diffOps(oldLines, newLines []string) []op {
	if len(oldLines)*len(newLines) > maxLCSCells {
		return fullReplace(oldLines, newLines)
	}

	matrix := make([][]int, len(oldLines)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(newLines)+1)
	}
	for i := 1; i <= len(oldLines); i++ {
		for j := 1; j <= len(newLines); j++ {
			if oldLines[i-1] == newLines[j-1] {
				matrix[i][j] = matrix[i-1][j-1] + 1
			} else {
				matrix[i][j] = max(matrix[i-1][j], matrix[i][j-1])
			}
		}
	}

	var reversed []op
	i, j := len(oldLines), len(newLines)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && oldLines[i-1] == newLines[j-1]:
			reversed = append(reversed, op{opContext, oldLines[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || matrix[i][j-1] >= matrix[i-1][j]):
			reversed = append(reversed, op{opAdd, newLines[j-1]})
			j--
		default:
			reversed = append(reversed, op{opDel, oldLines[i-1]})
			i--
		}
	}

	ops := make([]op, len(reversed))
	for k, o := range reversed {
		ops[len(reversed)-1-k] = o
	}
	return ops
}

func fullReplace(oldLines, newLines []string) []op {
	ops := make([]op, 0, len(oldLines)+len(newLines))
	for _, l := range oldLines {
		ops = append(ops, op{opDel, l})
	}
	for _, l := range newLines {
		ops = append(ops, op{opAdd, l})
	}
	return ops
}

// render keeps changed lines plus up to contextLines of surrounding context
// and drops long unchanged runs in between.
func (e *Engine) render(ops []op) string {
	keep := make([]bool, len(ops))
	for idx, o := range ops {
		if o.kind == opContext {
			continue
		}
		lo := max(0, idx-e.contextLines)
		hi := min(len(ops)-1, idx+e.contextLines)
		for k := lo; k <= hi; k++ {
			keep[k] = true
		}
	}

	var b strings.Builder
	lines := 0
	for idx, o := range ops {
		if !keep[idx] {
			continue
		}
		if lines >= maxDiffLines {
			b.WriteString("  ...\n")
			break
		}
		switch o.kind {
		case opAdd:
			b.WriteString("+ ")
		case opDel:
			b.WriteString("- ")
		case opContext:
			b.WriteString("  ")
		}
		b.WriteString(o.text)
		b.WriteByte('\n')
		lines++
	}
	return b.String()
}
