package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/testrank/internal/domain"
	"github.com/felixgeelhaar/testrank/internal/errors"
)

func TestValidate(t *testing.T) {
	raw := []Scenario{
		{ID: "s1", Priority: "critical", DependsOn: []string{"s0", "s0", " "}},
		{ID: "", Title: "orphan"},
		{ID: "s1", Priority: "low", Title: "duplicate"},
		{ID: " s2 ", Priority: ""},
		{ID: "s3", Priority: "urgent"},
		{ID: "s4", Priority: "HIGH"},
	}

	batch := Validate(raw)

	require.Equal(t, []string{"s1", "s2", "s4"}, batch.IDs())
	assert.Equal(t, []string{"s0"}, batch.Scenarios[0].DependsOn)
	assert.Equal(t, domain.PriorityMedium, batch.Scenarios[1].Priority)
	assert.Equal(t, domain.PriorityHigh, batch.Scenarios[2].Priority)

	require.Len(t, batch.Rejected, 3)
	assert.Equal(t, errors.ErrCodeScenarioMissingID, batch.Rejected[0].Code)
	assert.Equal(t, errors.ErrCodeScenarioDuplicateID, batch.Rejected[1].Code)
	assert.Equal(t, "s1", batch.Rejected[1].ScenarioID)
	assert.Equal(t, errors.ErrCodeScenarioInvalid, batch.Rejected[2].Code)
	assert.Equal(t, "s3", batch.Rejected[2].ScenarioID)
}

func TestValidateEmpty(t *testing.T) {
	batch := Validate(nil)
	assert.Empty(t, batch.Scenarios)
	assert.Empty(t, batch.Rejected)
}

func TestHasTag(t *testing.T) {
	s := Scenario{Tags: []string{"smoke", " User-Requirement "}}
	assert.True(t, s.HasTag("user-requirement"))
	assert.True(t, s.HasTag("nope", "SMOKE"))
	assert.False(t, s.HasTag("regression"))
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{
			name: "yaml list",
			data: "- scenario_id: a\n  priority: high\n- scenario_id: b\n",
			want: []string{"a", "b"},
		},
		{
			name: "yaml document",
			data: "scenarios:\n  - scenario_id: a\n    depends_on: [b]\n",
			want: []string{"a"},
		},
		{
			name: "json document",
			data: `{"scenarios":[{"scenario_id":"x","category":"security","tags":["smoke"]}]}`,
			want: []string{"x"},
		},
		{
			name: "empty",
			data: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), tt.name)
			require.NoError(t, err)
			var ids []string
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("scenarios: {not: [a list"), "bad.yaml")
	assert.Equal(t, errors.ErrCodeFileUnmarshal, errors.CodeOf(err))
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	content := `
scenarios:
  - scenario_id: login-1
    title: Valid login
    category: authentication
    priority: critical
    action: Navigate to /login, type credentials and click submit
    expectation: User should see the dashboard
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := FileSource{Path: path}.Scenarios(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "authentication", got[0].Category)
	assert.Equal(t, domain.PriorityCritical, got[0].Priority)
	assert.Contains(t, got[0].Text(), "dashboard")

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "none.yaml")}.Scenarios(context.Background())
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.CodeOf(err))
}

func TestSliceSourceCopies(t *testing.T) {
	src := SliceSource{{ID: "a"}}
	got, err := src.Scenarios(context.Background())
	require.NoError(t, err)
	got[0].ID = "mutated"
	assert.Equal(t, "a", src[0].ID)
}
