package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/michael1011/web3-proxy/pkg/policy"
	"github.com/michael1011/web3-proxy/pkg/upstream"
)

const policyFileName = "policy.yaml"

// PolicyConfig lists the per-method rules. Methods not listed are forwarded
// without checks.
type PolicyConfig struct {
	// Deny lists methods refused as if they did not exist.
	Deny []string `yaml:"deny"`
	// BlockRange lists log search methods whose block span is bounded.
	BlockRange []BlockRangeConfig `yaml:"block_range"`
}

type BlockRangeConfig struct {
	Method string `yaml:"method"`
	// MaxBlocks overrides WEB3_PROXY_MAX_BLOCK_RANGE for this method.
	MaxBlocks uint64 `yaml:"max_blocks"`
}

// DefaultPolicy is used when the config directory has no policy file.
func DefaultPolicy(maxBlockRange uint64) PolicyConfig {
	return PolicyConfig{
		Deny:       []string{"eth_accounts"},
		BlockRange: []BlockRangeConfig{{Method: "eth_getLogs", MaxBlocks: maxBlockRange}},
	}
}

// LoadPolicy reads <configDirPath>/policy.yaml, applies defaults and
// validates it. A missing file yields DefaultPolicy.
func LoadPolicy(configDirPath string, maxBlockRange uint64) (PolicyConfig, error) {
	f, err := os.Open(filepath.Join(configDirPath, policyFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultPolicy(maxBlockRange), nil
	} else if err != nil {
		return PolicyConfig{}, err
	}
	defer f.Close()

	var cfg PolicyConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return PolicyConfig{}, fmt.Errorf("failed to parse %s: %w", policyFileName, err)
	}

	for i, br := range cfg.BlockRange {
		if br.MaxBlocks == 0 {
			cfg.BlockRange[i].MaxBlocks = maxBlockRange
		}
	}

	if err := cfg.verify(); err != nil {
		return PolicyConfig{}, err
	}
	return cfg, nil
}

// verify checks that every method is named and bound to one rule only.
func (cfg PolicyConfig) verify() error {
	seen := make(map[string]string)
	bind := func(method, rule string) error {
		if method == "" {
			return fmt.Errorf("empty method name in %s rules", rule)
		}
		if prev, ok := seen[method]; ok && prev == rule {
			return fmt.Errorf("method '%s' is listed twice in %s rules", method, rule)
		} else if ok {
			return fmt.Errorf("method '%s' is listed in both %s and %s rules", method, prev, rule)
		}
		seen[method] = rule
		return nil
	}

	for _, method := range cfg.Deny {
		if err := bind(method, policy.DenyRuleName); err != nil {
			return err
		}
	}
	for _, br := range cfg.BlockRange {
		if err := bind(br.Method, policy.BlockRangeRuleName); err != nil {
			return err
		}
	}
	return nil
}

// NewEngine binds the configured rules. Range rules read the head block from head.
func (cfg PolicyConfig) NewEngine(head upstream.HeadReader) (*policy.Engine, error) {
	engine := policy.NewEngine()
	for _, method := range cfg.Deny {
		if err := engine.Handle(method, policy.DenyRule{}); err != nil {
			return nil, err
		}
	}
	for _, br := range cfg.BlockRange {
		if err := engine.Handle(br.Method, policy.NewBlockRangeRule(head, br.MaxBlocks)); err != nil {
			return nil, err
		}
	}
	return engine, nil
}
