// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/notes-to-anki/internal/generate"
	"github.com/pdiddy/notes-to-anki/pkg/types"
)

// bindFlags binds each viper key to the named flag.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

// loadConfig assembles the run configuration from flags, environment, and
// the config file, in viper's precedence order.
func loadConfig() (types.Config, error) {
	backend, err := types.ParseBackendKind(viper.GetString("generation.backend"))
	if err != nil {
		return types.Config{}, err
	}
	policy, err := types.ParseFailurePolicy(viper.GetString("pipeline.on_error"))
	if err != nil {
		return types.Config{}, err
	}

	cfg := types.Config{
		Generation: types.GenerationConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("generation.model"),
				MaxRetries: viper.GetInt("generation.max_retries"),
			},
			HTTPConfig: types.HTTPConfig{
				Timeout: viper.GetDuration("generation.timeout"),
				BaseURL: viper.GetString("generation.base_url"),
			},
			Backend:   backend,
			CacheSize: viper.GetInt("generation.cache_size"),
		},
		Pipeline: types.PipelineConfig{
			Extension: viper.GetString("pipeline.extension"),
			Exclude:   viper.GetStringSlice("pipeline.exclude"),
			OnError:   policy,
			Output:    viper.GetString("pipeline.output"),
		},
	}

	cfg.Generation.APIKey = loadedSecrets.Resolve(
		viper.GetString("generation.api_key"),
		generate.APIKeyName(backend),
		generate.APIKeyEnv(backend),
	)
	return cfg, nil
}

// newGenerator builds the configured backend wrapped in a Generator.
func newGenerator(ctx context.Context, cfg types.GenerationConfig) (*generate.Generator, error) {
	backend, err := generate.NewBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w (set --api-key, .secrets/%s, or %s)",
			err, generate.APIKeyName(cfg.Backend), generate.APIKeyEnv(cfg.Backend))
	}
	return generate.NewGenerator(backend, cfg, nil)
}
