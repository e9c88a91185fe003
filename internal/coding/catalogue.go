package coding

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/interview-simulator/internal/types"
)

//go:embed problems.json
var catalogueFS embed.FS

// DefaultCatalogue returns the built-in problem set embedded in the binary.
func DefaultCatalogue() ([]types.Problem, error) {
	data, err := catalogueFS.ReadFile("problems.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalogue: %w", err)
	}
	return parseCatalogue(data)
}

// LoadCatalogue reads a problem catalogue from a JSON file on disk,
// allowing deployments to supply their own problem bank.
func LoadCatalogue(path string) ([]types.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue %s: %w", path, err)
	}
	return parseCatalogue(data)
}

func parseCatalogue(data []byte) ([]types.Problem, error) {
	var problems []types.Problem
	if err := json.Unmarshal(data, &problems); err != nil {
		return nil, fmt.Errorf("failed to parse problem catalogue: %w", err)
	}
	if len(problems) == 0 {
		return nil, fmt.Errorf("problem catalogue is empty")
	}
	return problems, nil
}
