package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// nested holds the config sections whose flags and env vars are written with
// a prefix, e.g. --nlp-url and VOCAB_NLP_URL for nlp.url.
var nested = []string{"nlp", "argos", "log"}

// listKeys are split on commas when they come from the environment.
var listKeys = map[string]bool{"dictionary": true, "order": true, "pos": true}

// flagsNotConfig are flags that steer loading and never become config keys.
var flagsNotConfig = map[string]bool{"config": true, "help": true, "version": true}

func defaults() map[string]any {
	return map[string]any{
		"output":            DefaultOutput,
		"exclude":           "",
		"organize_excludes": false,
		"number":            DefaultNumber,
		"dictionary":        []string{DefaultDictionary},
		"method":            DefaultMethod,
		"order":             []string{"dictcc", "argos"},
		"from":              DefaultFrom,
		"to":                DefaultTo,
		"pos":               []string{"NOUN", "VERB", "ADJ", "ADV"},
		"workers":           0,
		"nlp.engine":        DefaultNLPEngine,
		"nlp.url":           DefaultNLPURL,
		"nlp.model":         DefaultNLPModel,
		"argos.url":         DefaultArgosURL,
		"log.level":         DefaultLogLevel,
		"log.format":        DefaultLogFormat,
	}
}

// findConfigFile returns the explicit path or the first default file name
// that exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// keyFor maps a flag or env var name in snake_case to its config key.
func keyFor(name string) string {
	for _, section := range nested {
		if rest, ok := strings.CutPrefix(name, section+"_"); ok {
			return section + "." + rest
		}
	}
	return name
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Only flags that were set on the command line take part.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// VOCAB_NLP_URL -> nlp.url, VOCAB_POS=NOUN,VERB -> pos: [NOUN VERB]
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		name := keyFor(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)))
		if listKeys[name] {
			return name, splitList(value)
		}
		return name, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || flagsNotConfig[f.Name] {
				return "", nil
			}
			return keyFor(strings.ReplaceAll(f.Name, "-", "_")), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used
	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
