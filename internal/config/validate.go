package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/pawfocus/pawfocus/internal/progression"
)

// ErrInvalidRewardTable indicates the rewards section failed its schema.
var ErrInvalidRewardTable = errors.New("invalid reward table")

// ValidationError reports a config file that could not be used.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid config: %v", e.Err)
	}
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

var validate = validator.New()

// Validate checks field constraints and the reward table schema.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("fields failed validation: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return ValidateRewardTable(c.Progression.Rewards)
}

// rewardTableSchema constrains level keys to positive integers and
// accessory ids to lowercase slugs listed at most once per level.
const rewardTableSchema = `{
  "type": "object",
  "propertyNames": {"pattern": "^[1-9][0-9]*$"},
  "additionalProperties": {
    "type": "object",
    "properties": {
      "accessories": {
        "type": "array",
        "uniqueItems": true,
        "items": {"type": "string", "pattern": "^[a-z][a-z0-9_-]*$"}
      },
      "extra_points": {"type": "integer", "minimum": 0},
      "extra_study_time_min": {"type": "integer", "minimum": 0}
    },
    "additionalProperties": false
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func rewardSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(rewardTableSchema), &def); err != nil {
			schemaErr = fmt.Errorf("parse reward schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://reward_table.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(url)
	})
	return compiledSchema, schemaErr
}

// ValidateRewardTable checks table against the reward table schema.
func ValidateRewardTable(table progression.RewardTable) error {
	if table == nil {
		return nil
	}
	schema, err := rewardSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal reward table: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse reward table: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRewardTable, err)
	}
	return nil
}
