package report

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/testrank/internal/scenario"
)

// Fingerprint hashes a batch so identical inputs can be recognised across
// runs. Order matters: it decides ties in the ranking.
func Fingerprint(scenarios []scenario.Scenario) (string, error) {
	if scenarios == nil {
		scenarios = []scenario.Scenario{}
	}
	data, err := json.Marshal(scenarios)
	if err != nil {
		return "", fmt.Errorf("failed to encode batch: %w", err)
	}

	hasher := blake3.New()
	hasher.Write(data)
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
