package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/necolo/rulink/internal/doctor"
)

func TestValidateDoctorFlags(t *testing.T) {
	t.Cleanup(resetFlags)

	tests := []struct {
		name                 string
		json, quiet, verbose bool
		wantErr              bool
	}{
		{"none", false, false, false, false},
		{"json", true, false, false, false},
		{"json and quiet", true, true, false, true},
		{"all", true, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doctorJSON, doctorQuiet, doctorVerbose = tt.json, tt.quiet, tt.verbose
			err := validateDoctorFlags(nil, nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOutputDoctorText(t *testing.T) {
	t.Cleanup(resetFlags)
	report := &doctor.DoctorReport{
		Results: []*doctor.CheckResult{
			{Name: "tool-git", Category: "tools", Status: doctor.SeverityPass, Message: "git available"},
			{Name: "active-source", Category: "source", Status: doctor.SeverityError, Message: "no active source", FixHint: "Run: rulink source add"},
		},
		Summary: doctor.Summary{Passed: 1, Errors: 1},
	}

	var buf bytes.Buffer
	outputDoctorText(&buf, report)
	out := buf.String()
	assert.NotContains(t, out, "tool-git")
	assert.Contains(t, out, "[source] active-source: no active source")
	assert.Contains(t, out, "hint: Run: rulink source add")
	assert.Contains(t, out, "Summary: 1 passed, 0 info, 0 warnings, 1 errors")

	doctorVerbose = true
	buf.Reset()
	outputDoctorText(&buf, report)
	assert.Contains(t, buf.String(), "[tools] tool-git: git available")
}

func TestOutputDoctorJSON(t *testing.T) {
	t.Cleanup(resetFlags)
	doctorJSON = true
	report := &doctor.DoctorReport{Summary: doctor.Summary{Warnings: 1}}

	var buf bytes.Buffer
	require.NoError(t, outputDoctorReport(&buf, report))
	assert.Contains(t, buf.String(), `"warnings": 1`)
}
