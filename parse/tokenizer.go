package parse

// Package parse splits INI-style text into section-tagged key/value records.
//
// Scope:
// - `[Section]` headers, tracked across lines
// - `Key=Value` directives, value is everything after the first `=`
// - Line comments with configurable delimiters
//
// Non-goals:
// - Value decoding (see parse/tgm)
// - Quoting, escaping, continuation lines

import (
	"bufio"
	"io"
	"strings"
)

// =========================
// Records
// =========================

// Record is one key/value directive together with the section it belongs to.
type Record struct {
	Line    int    // 1-based source line
	Section string // name of the enclosing [Section], "" before the first header
	Block   int    // ordinal of the enclosing header occurrence, 0 before the first header
	Key     string
	Value   string
	Comment string
}

// LineSource supplies raw lines. *bufio.Scanner satisfies it.
type LineSource interface {
	Scan() bool
	Text() string
	Err() error
}

// DefaultCommentPrefixes are the delimiters used when Options leaves them empty.
var DefaultCommentPrefixes = []string{"//", ";"}

// maxLineSize bounds a single physical line read through NewLineSource.
const maxLineSize = 1 << 20

// Options tunes the tokenizer.
type Options struct {
	// CommentPrefixes start a line comment. Defaults to DefaultCommentPrefixes.
	CommentPrefixes []string
	// Strict turns malformed lines into errors instead of skipping them.
	Strict bool
	// OnMalformed is called for every skipped line in lenient mode.
	OnMalformed func(line int, text string)
}

// NewLineSource wraps r in a scanner that accepts long lines.
func NewLineSource(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return s
}

// =========================
// Tokenizer
// =========================

// Tokenizer produces records lazily from a LineSource. It is not restartable.
type Tokenizer struct {
	src     LineSource
	opts    Options
	lineNo  int
	section string
	block   int
	rec     Record
	err     error
	done    bool
}

// NewTokenizer returns a tokenizer reading from src.
func NewTokenizer(src LineSource, opts Options) *Tokenizer {
	if len(opts.CommentPrefixes) == 0 {
		opts.CommentPrefixes = DefaultCommentPrefixes
	}
	return &Tokenizer{src: src, opts: opts}
}

// Next advances to the next record. It returns false at end of input or on
// error; Err distinguishes the two.
func (t *Tokenizer) Next() bool {
	if t.done {
		return false
	}
	for t.src.Scan() {
		t.lineNo++
		raw := t.src.Text()
		body, comment := t.stripComment(raw)
		line := strings.TrimSpace(body)

		if line == "" {
			continue
		}

		if name, ok := sectionName(line); ok {
			t.section = name
			t.block++
			continue
		}

		idx := strings.Index(line, "=")
		key := ""
		if idx > 0 {
			key = strings.TrimSpace(line[:idx])
		}
		if key == "" {
			if t.opts.Strict {
				t.err = &MalformedLineError{Line: t.lineNo, Text: raw}
				t.done = true
				return false
			}
			if t.opts.OnMalformed != nil {
				t.opts.OnMalformed(t.lineNo, raw)
			}
			continue
		}

		t.rec = Record{
			Line:    t.lineNo,
			Section: t.section,
			Block:   t.block,
			Key:     key,
			Value:   strings.TrimSpace(line[idx+1:]),
			Comment: comment,
		}
		return true
	}

	t.done = true
	if err := t.src.Err(); err != nil {
		t.err = err
	}
	return false
}

// Record returns the record produced by the last successful call to Next.
func (t *Tokenizer) Record() Record {
	return t.rec
}

// Err returns the first error met by Next, if any.
func (t *Tokenizer) Err() error {
	return t.err
}

// Section returns the current section name.
func (t *Tokenizer) Section() string {
	return t.section
}

// =========================
// Utilities
// =========================

func (t *Tokenizer) stripComment(s string) (string, string) {
	cut := -1
	width := 0
	for _, prefix := range t.opts.CommentPrefixes {
		if prefix == "" {
			continue
		}
		if i := strings.Index(s, prefix); i >= 0 && (cut < 0 || i < cut) {
			cut = i
			width = len(prefix)
		}
	}
	if cut < 0 {
		return s, ""
	}
	return s[:cut], strings.TrimSpace(s[cut+width:])
}

func sectionName(s string) (string, bool) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return "", false
	}
	name := strings.TrimSpace(s[1 : len(s)-1])
	if name == "" || strings.ContainsAny(name, "[]=") {
		return "", false
	}
	return name, true
}
