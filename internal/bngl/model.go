package bngl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vk/fitconf/internal/ctxlog"
)

// Suffix is one output emitted by a model action: the action that produces
// it and the prefix experimental data files must carry to be compared with it.
type Suffix struct {
	Action string
	Prefix string
}

// Model is a loaded BNGL model.
type Model struct {
	name     string
	filePath string
	suffixes []Suffix
}

// Name is the file name without directory or extension.
func (m *Model) Name() string { return m.name }

// FilePath is the path the model was loaded from, as given by the user.
func (m *Model) FilePath() string { return m.filePath }

// Suffixes returns the (action, prefix) pairs in file order.
func (m *Model) Suffixes() []Suffix {
	out := make([]Suffix, len(m.suffixes))
	copy(out, m.suffixes)
	return out
}

var (
	actionStart = regexp.MustCompile(`^\s*(simulate\w*|parameter_scan|bifurcate)\s*\(`)
	actionRegex = regexp.MustCompile(`^\s*(simulate\w*|parameter_scan|bifurcate)\s*\(\s*\{(.*)\}\s*\)\s*;?\s*$`)
	suffixRegex = regexp.MustCompile(`\bsuffix\s*=>\s*["']([^"']+)["']`)
)

// Parse reads BNGL source and collects the suffixes of its actions. An action
// may span several lines, with or without trailing backslashes.
func Parse(path string, r io.Reader) (*Model, error) {
	base := filepath.Base(path)
	m := &Model{
		name:     strings.TrimSuffix(base, filepath.Ext(base)),
		filePath: path,
	}

	var stmt strings.Builder
	depth := 0
	flush := func() {
		matches := actionRegex.FindStringSubmatch(stmt.String())
		stmt.Reset()
		depth = 0
		if matches == nil {
			return
		}
		sm := suffixRegex.FindStringSubmatch(matches[2])
		if sm == nil {
			// Actions without a suffix produce nothing a dataset can match.
			return
		}
		m.suffixes = append(m.suffixes, Suffix{Action: matches[1], Prefix: sm[1]})
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSuffix(strings.TrimRight(line, " \t"), "\\")
		if stmt.Len() == 0 && !actionStart.MatchString(line) {
			continue
		}
		stmt.WriteString(line)
		stmt.WriteByte(' ')
		depth += strings.Count(line, "(") - strings.Count(line, ")")
		if depth <= 0 {
			flush()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read model %s at line %d: %w", path, lineNo, err)
	}
	if stmt.Len() > 0 {
		flush()
	}
	return m, nil
}

// Loader reads BNGL models from disk.
type Loader struct{}

// NewLoader creates a new BNGL model loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadModel opens and parses the model at path.
func (l *Loader) LoadModel(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model %s: %w", path, err)
	}
	defer f.Close()

	m, err := Parse(path, f)
	if err != nil {
		return nil, err
	}
	logger.Debug("Model loaded.", "model", m.name, "path", path, "suffixes", len(m.suffixes))
	return m, nil
}
