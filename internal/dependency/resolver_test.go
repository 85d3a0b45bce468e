package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/testrank/internal/errors"
	"github.com/felixgeelhaar/testrank/internal/scenario"
)

func sc(id string, deps ...string) scenario.Scenario {
	return scenario.Scenario{ID: id, DependsOn: deps}
}

func TestResolveChain(t *testing.T) {
	res := Resolve([]scenario.Scenario{sc("C", "B"), sc("B", "A"), sc("A")})

	a, b, c := res.Resolutions["A"], res.Resolutions["B"], res.Resolutions["C"]
	assert.Less(t, a.ExecutionOrder, b.ExecutionOrder)
	assert.Less(t, b.ExecutionOrder, c.ExecutionOrder)
	assert.True(t, a.CanRunParallel)
	assert.True(t, c.CanRunParallel, "dependents become parallel-eligible once freed")
	assert.Equal(t, 3, res.Waves)
	assert.Empty(t, res.Cyclic)
}

func TestResolveMutualDependency(t *testing.T) {
	var res Result
	require.NotPanics(t, func() {
		res = Resolve([]scenario.Scenario{sc("A", "B"), sc("B", "A"), sc("C")})
	})

	assert.Equal(t, Resolution{ExecutionOrder: Unresolved}, res.Resolutions["A"])
	assert.Equal(t, Resolution{ExecutionOrder: Unresolved}, res.Resolutions["B"])
	assert.Equal(t, Resolution{ExecutionOrder: 1, CanRunParallel: true}, res.Resolutions["C"])
	assert.Equal(t, []string{"A", "B"}, res.Cyclic)

	warnings := res.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, errors.ErrCodeDependencyCycle, warnings[0].Code)
}

func TestResolveDownstreamOfCycle(t *testing.T) {
	res := Resolve([]scenario.Scenario{sc("A", "B"), sc("B", "A"), sc("D", "A")})
	assert.Equal(t, Unresolved, res.Resolutions["D"].ExecutionOrder)
	assert.Equal(t, []string{"A", "B", "D"}, res.Cyclic)
}

func TestResolveSelfDependency(t *testing.T) {
	res := Resolve([]scenario.Scenario{sc("A", "A")})
	assert.Equal(t, Unresolved, res.Resolutions["A"].ExecutionOrder)
}

func TestResolveDanglingAndDuplicateRefs(t *testing.T) {
	res := Resolve([]scenario.Scenario{sc("A"), sc("B", "A", "A", "missing")})

	assert.Equal(t, 1, res.Resolutions["A"].ExecutionOrder)
	assert.Equal(t, 2, res.Resolutions["B"].ExecutionOrder)
	require.Len(t, res.Dangling, 1)
	assert.Equal(t, errors.ErrCodeScenarioMissingRef, res.Dangling[0].Code)
	assert.Equal(t, "B", res.Dangling[0].ScenarioID)
}

func TestResolveIndependentRootsShareOrder(t *testing.T) {
	res := Resolve([]scenario.Scenario{sc("S1"), sc("S2", "S1"), sc("S3")})

	assert.Equal(t, 1, res.Resolutions["S1"].ExecutionOrder)
	assert.Equal(t, 1, res.Resolutions["S3"].ExecutionOrder)
	assert.True(t, res.Resolutions["S3"].CanRunParallel)
	assert.Greater(t, res.Resolutions["S2"].ExecutionOrder, res.Resolutions["S1"].ExecutionOrder)
}

func TestResolveDiamond(t *testing.T) {
	res := Resolve([]scenario.Scenario{sc("top"), sc("left", "top"), sc("right", "top"), sc("bottom", "left", "right")})
	assert.Equal(t, 2, res.Resolutions["left"].ExecutionOrder)
	assert.Equal(t, 2, res.Resolutions["right"].ExecutionOrder)
	assert.Equal(t, 3, res.Resolutions["bottom"].ExecutionOrder)
}

func TestResolveEmpty(t *testing.T) {
	res := Resolve(nil)
	assert.Empty(t, res.Resolutions)
	assert.Empty(t, res.Cyclic)
	assert.Zero(t, res.Waves)
}
