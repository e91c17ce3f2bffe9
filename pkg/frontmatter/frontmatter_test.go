package frontmatter

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	alwaysTrue := true
	tests := []struct {
		name     string
		input    string
		want     RuleHeader
		wantBody string
		wantErr  error
	}{
		{
			name:     "full header",
			input:    "---\ndescription: TypeScript style rules\nglobs: \"*.ts, *.tsx\"\nalwaysApply: true\n---\nPrefer named exports.\n",
			want:     RuleHeader{Description: "TypeScript style rules", Globs: Globs{"*.ts", "*.tsx"}, AlwaysApply: &alwaysTrue},
			wantBody: "Prefer named exports.\n",
		},
		{
			name:     "globs as list",
			input:    "---\nglobs:\n  - \"*.go\"\n  - \"go.mod, go.sum\"\n---\nbody",
			want:     RuleHeader{Globs: Globs{"*.go", "go.mod", "go.sum"}},
			wantBody: "body",
		},
		{
			name:     "no header",
			input:    "# Just markdown\n",
			want:     RuleHeader{},
			wantBody: "# Just markdown\n",
		},
		{
			name:     "empty header",
			input:    "---\n---\n\nBody content here.\n",
			want:     RuleHeader{},
			wantBody: "\nBody content here.\n",
		},
		{
			name:     "CRLF line endings",
			input:    "---\r\ndescription: windows\r\n---\r\nbody\r\n",
			want:     RuleHeader{Description: "windows"},
			wantBody: "body\r\n",
		},
		{
			name:     "closing delimiter at EOF",
			input:    "---\ndescription: only header\n---",
			want:     RuleHeader{Description: "only header"},
			wantBody: "",
		},
		{
			name:    "unterminated",
			input:   "---\ndescription: never closed\n",
			wantErr: ErrUnterminated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got RuleHeader
			body, err := Parse(strings.NewReader(tt.input), &got)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() header = %+v, want %+v", got, tt.want)
			}
			if string(body) != tt.wantBody {
				t.Errorf("Parse() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	var got RuleHeader
	_, err := Parse(strings.NewReader("---\ndescription: [broken\n---\nbody\n"), &got)
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML")
	}
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RuleHeader
		wantErr bool
	}{
		{
			name:  "stops at closing delimiter",
			input: "---\ndescription: header only\n---\n---\nnot: yaml: here\n",
			want:  RuleHeader{Description: "header only"},
		},
		{
			name:  "no header",
			input: "plain body\n",
		},
		{
			name:  "empty input",
			input: "",
		},
		{
			name:    "unterminated",
			input:   "---\ndescription: x\n",
			wantErr: true,
		},
		{
			name:    "globs of wrong shape",
			input:   "---\nglobs:\n  a: b\n---\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got RuleHeader
			err := ParseHeader(strings.NewReader(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHeader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseHeader() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
