package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/planner"
)

// ErrUnknownPlanFormat is returned for plan files with an unsupported extension.
var ErrUnknownPlanFormat = errors.New("unknown plan file format")

// Plan is the on-disk hiring roster.
type Plan struct {
	Roles []model.Role `json:"roles" toml:"roles" yaml:"roles" validate:"unique=ID,dive"`
}

var validate = validator.New()

// DefaultPlanPath returns the default plan file location.
func DefaultPlanPath() string {
	return filepath.Join(Dir(), "plan.toml")
}

// LoadPlan reads a plan file. A missing file yields the default roster.
// Role values are clamped into their valid ranges.
func LoadPlan(path string) ([]model.Role, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied plan path
	if err != nil {
		if os.IsNotExist(err) {
			return planner.DefaultRoster(), nil
		}
		return nil, fmt.Errorf("reading plan: %w", err)
	}

	plan, err := DecodePlan(planFormat(path), data)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	p, err := planner.New(plan.Roles)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return p.Roles(), nil
}

// DecodePlan parses and validates plan data in the given format
// ("toml", "yaml" or "json").
func DecodePlan(format string, data []byte) (Plan, error) {
	var plan Plan
	var err error
	switch format {
	case "toml":
		err = toml.Unmarshal(data, &plan)
	case "yaml":
		err = yaml.Unmarshal(data, &plan)
	case "json":
		err = json.Unmarshal(data, &plan)
	default:
		return plan, fmt.Errorf("%w: %q", ErrUnknownPlanFormat, format)
	}
	if err != nil {
		return plan, fmt.Errorf("parsing %s: %w", format, err)
	}
	if err := ValidatePlan(plan); err != nil {
		return plan, err
	}
	return plan, nil
}

// ValidatePlan checks that every role has a non-empty, unique ID.
func ValidatePlan(plan Plan) error {
	if err := validate.Struct(plan); err != nil {
		// Report the planner sentinel where one applies.
		if idErr := planner.ValidateIDs(plan.Roles); idErr != nil {
			return idErr
		}
		return fmt.Errorf("invalid plan: %w", err)
	}
	return nil
}

// SavePlan writes roles to path in the format implied by its extension.
func SavePlan(path string, roles []model.Role) error {
	plan := Plan{Roles: roles}
	if err := ValidatePlan(plan); err != nil {
		return err
	}

	data, err := EncodePlan(planFormat(path), plan)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating plan dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	return nil
}

// EncodePlan serializes a plan in the given format.
func EncodePlan(format string, plan Plan) ([]byte, error) {
	switch format {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(plan); err != nil {
			return nil, fmt.Errorf("encoding toml: %w", err)
		}
		return buf.Bytes(), nil
	case "yaml":
		return yaml.Marshal(plan)
	case "json":
		return json.MarshalIndent(plan, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlanFormat, format)
	}
}

func planFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return "toml"
	}
}
