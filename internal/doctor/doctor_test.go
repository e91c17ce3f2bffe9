package doctor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCheck struct {
	mock.Mock
}

func (m *mockCheck) Name() string     { return m.Called().String(0) }
func (m *mockCheck) Category() string { return m.Called().String(0) }

func (m *mockCheck) Run(ctx context.Context) *CheckResult {
	return m.Called(ctx).Get(0).(*CheckResult)
}

func newMockCheck(name string, status Severity) *mockCheck {
	c := &mockCheck{}
	c.On("Name").Return(name).Maybe()
	c.On("Category").Return("test").Maybe()
	c.On("Run", mock.Anything).Return(&CheckResult{Name: name, Status: status}).Once()
	return c
}

func TestRunner_Run(t *testing.T) {
	checks := []*mockCheck{
		newMockCheck("a", SeverityPass),
		newMockCheck("b", SeverityInfo),
		newMockCheck("c", SeverityWarning),
		newMockCheck("d", SeverityError),
		newMockCheck("e", SeverityPass),
	}
	r := NewRunner()
	for _, c := range checks {
		r.AddCheck(c)
	}

	report := r.Run(t.Context())
	require.Len(t, report.Results, 5)
	assert.Equal(t, Summary{Passed: 2, Info: 1, Warnings: 1, Errors: 1}, report.Summary)
	assert.True(t, report.HasErrors())
	assert.True(t, report.HasWarnings())
	assert.False(t, report.Timestamp.IsZero())

	for i, name := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, name, report.Results[i].Name, "order preserved")
	}
	for _, c := range checks {
		c.AssertExpectations(t)
	}
}

func TestRunner_Empty(t *testing.T) {
	report := NewRunner().Run(t.Context())
	assert.Empty(t, report.Results)
	assert.False(t, report.HasErrors())
	assert.False(t, report.HasWarnings())
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(&CheckResult{Name: "x", Status: SeverityWarning})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"warning"`)
	assert.Equal(t, "unknown", Severity(42).String())
}
