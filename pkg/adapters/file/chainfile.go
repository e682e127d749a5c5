package file

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/triagekit/triage/pkg/chain"
)

// HandlerSpec is one tier in a declarative chain definition.
type HandlerSpec struct {
	Name     string `yaml:"name" validate:"required"`
	MaxLevel int    `yaml:"max_level" validate:"required,gt=0"`
	Reply    string `yaml:"reply"`
}

// ChainSpec is the YAML shape of a chain definition file.
type ChainSpec struct {
	Handlers []HandlerSpec `yaml:"handlers" validate:"required,min=1,dive"`
}

// LoadChainSpec parses and validates a chain definition from a YAML file.
// Beyond per-field validation, tiers must be in strictly ascending level
// order: a later tier with a lower ceiling would be unreachable.
func LoadChainSpec(path string) (*ChainSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain file: %w", err)
	}

	var spec ChainSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse chain file: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&spec); err != nil {
		return nil, fmt.Errorf("invalid chain definition: %w", err)
	}

	prev := 0
	for _, h := range spec.Handlers {
		if h.MaxLevel <= prev {
			return nil, fmt.Errorf("invalid chain definition: tier %s (max_level %d) is unreachable behind level %d", h.Name, h.MaxLevel, prev)
		}
		prev = h.MaxLevel
	}

	return &spec, nil
}

// BuildChain constructs a dispatch chain from the spec, applying the given
// middlewares to every tier.
func (s *ChainSpec) BuildChain(opts []chain.Option, middlewares ...chain.Middleware) (*chain.Chain, error) {
	c := chain.New(opts...)
	for _, h := range s.Handlers {
		handler := chain.Wrap(chain.Level(h.Name, h.MaxLevel, h.Reply), middlewares...)
		if err := c.Append(handler); err != nil {
			return nil, fmt.Errorf("failed to build chain: %w", err)
		}
	}
	return c, nil
}
