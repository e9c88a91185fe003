package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed budgets.yaml
var defaultBudgets []byte

// RoundBudgets sets the question quota for each round of the interview
// plan. Full-plan and custom single-round quotas differ.
type RoundBudgets struct {
	Technical        int `yaml:"technical" validate:"gt=0"`
	Behavioral       int `yaml:"behavioral" validate:"gt=0"`
	Coding           int `yaml:"coding" validate:"gt=0"`
	SalesStage       int `yaml:"sales_stage" validate:"gt=0"`
	CustomTechnical  int `yaml:"custom_technical" validate:"gt=0"`
	CustomBehavioral int `yaml:"custom_behavioral" validate:"gt=0"`
	CustomSales      int `yaml:"custom_sales" validate:"gt=0"`
}

// DefaultBudgets returns the embedded budget document.
func DefaultBudgets() (RoundBudgets, error) {
	return parseBudgets(defaultBudgets)
}

// LoadBudgets reads a budget document from disk, letting deployments tune
// round lengths without a rebuild.
func LoadBudgets(path string) (RoundBudgets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RoundBudgets{}, fmt.Errorf("failed to read budgets %s: %w", path, err)
	}
	return parseBudgets(data)
}

func parseBudgets(data []byte) (RoundBudgets, error) {
	var b RoundBudgets
	if err := yaml.Unmarshal(data, &b); err != nil {
		return RoundBudgets{}, fmt.Errorf("failed to parse budgets: %w", err)
	}
	if err := validator.New().Struct(&b); err != nil {
		return RoundBudgets{}, fmt.Errorf("invalid budgets: %w", err)
	}
	return b, nil
}
