// Package config loads the vocabbuilder configuration from defaults, a YAML
// file, VOCAB_ environment variables and command line flags.
package config

// Default configuration values.
const (
	DefaultOutput     = "vocabulary.txt"
	DefaultDictionary = "dict_cc_de_en.txt"
	DefaultMethod     = "dictcc"
	DefaultNumber     = 2
	DefaultFrom       = "de"
	DefaultTo         = "en"
	DefaultNLPEngine  = "spacy"
	DefaultNLPURL     = "http://localhost:8080"
	DefaultNLPModel   = "de_core_news_sm"
	DefaultArgosURL   = "http://localhost:5000"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	EnvPrefix         = "VOCAB_"
)

// ConfigFileNames are looked up in the working directory when no --config
// is given.
var ConfigFileNames = []string{"vocabbuilder.yaml", "vocabbuilder.yml"}

// Config holds all CLI configuration options.
type Config struct {
	Input            string   `koanf:"input"`
	Output           string   `koanf:"output"`
	Exclude          string   `koanf:"exclude"`
	OrganizeExcludes bool     `koanf:"organize_excludes"`
	Number           int      `koanf:"number"`
	Dictionaries     []string `koanf:"dictionary"`
	Method           string   `koanf:"method"`
	Order            []string `koanf:"order"`
	From             string   `koanf:"from"`
	To               string   `koanf:"to"`
	POS              []string `koanf:"pos"`
	Cache            string   `koanf:"cache"`
	Workers          int      `koanf:"workers"`

	NLP   NLPConfig   `koanf:"nlp"`
	Argos ArgosConfig `koanf:"argos"`
	Log   LogConfig   `koanf:"log"`

	// FileUsed is the config file that was loaded, if any.
	FileUsed string `koanf:"-"`
}

// NLPConfig selects the tokenizer.
type NLPConfig struct {
	Engine string `koanf:"engine"`
	URL    string `koanf:"url"`
	Model  string `koanf:"model"`
}

// ArgosConfig points at a LibreTranslate server.
type ArgosConfig struct {
	URL    string `koanf:"url"`
	APIKey string `koanf:"api_key"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
