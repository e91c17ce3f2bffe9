package frontmatter

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/necolo/rulink/internal/errors"
)

// ErrUnterminated is returned when an opening delimiter has no closing one.
var ErrUnterminated = errors.New("missing closing frontmatter delimiter")

// RuleHeader is the metadata block of a rule file.
type RuleHeader struct {
	Description string `yaml:"description,omitempty"`
	Globs       Globs  `yaml:"globs,omitempty"`
	AlwaysApply *bool  `yaml:"alwaysApply,omitempty"`
}

// Globs accepts either a YAML list or a single comma-separated string.
type Globs []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (g *Globs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*g = splitGlobs(s)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, splitGlobs(item)...)
		}
		*g = out
		return nil
	default:
		return errors.Newf("globs: unsupported YAML node at line %d", node.Line)
	}
}

func splitGlobs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Parse splits r into header and body, decoding the header into matter.
// Content without a leading delimiter is returned whole as body.
func Parse[T any](r io.Reader, matter *T) ([]byte, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	rest, ok := trimOpening(content)
	if !ok {
		return content, nil
	}

	header, body, found := cutClosing(rest)
	if !found {
		return nil, ErrUnterminated
	}
	if err := yaml.Unmarshal(header, matter); err != nil {
		return nil, errors.Wrap(err, "parsing frontmatter")
	}
	return body, nil
}

func trimOpening(content []byte) ([]byte, bool) {
	for _, open := range []string{"---\n", "---\r\n"} {
		if bytes.HasPrefix(content, []byte(open)) {
			return content[len(open):], true
		}
	}
	return nil, false
}

// cutClosing finds a line consisting of "---" and returns what precedes and
// follows it.
func cutClosing(rest []byte) (header, body []byte, found bool) {
	offset := 0
	for offset <= len(rest) {
		end := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		next := len(rest) + 1
		if end < 0 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+end]
			next = offset + end + 1
		}
		if string(bytes.TrimRight(line, "\r")) == "---" {
			if next > len(rest) {
				return rest[:offset], nil, true
			}
			return rest[:offset], rest[next:], true
		}
		offset = next
	}
	return nil, nil, false
}

// ParseHeader decodes only the header from r, stopping at the closing
// delimiter. A missing header leaves matter untouched.
func ParseHeader(r io.Reader, matter any) error {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return scanner.Err()
	}
	if strings.TrimSpace(scanner.Text()) != "---" {
		return nil
	}

	var buf bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			if err := yaml.Unmarshal(buf.Bytes(), matter); err != nil {
				return errors.Wrap(err, "parsing frontmatter")
			}
			return nil
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return ErrUnterminated
}
