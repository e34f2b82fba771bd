package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sukalov/openlp-chords/internal/source"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		URL       string `yaml:"url"` // file path or libsql:// URL
		AuthToken string `yaml:"auth_token"`
	} `yaml:"database"`
	ChordPro struct {
		Dir    string `yaml:"dir"` // where downloaded ChordPro files land
		Strict bool   `yaml:"strict"`
	} `yaml:"chordpro"`
	Redis struct {
		Addr     string `yaml:"addr"` // host:port, TLS
		Password string `yaml:"password"`
	} `yaml:"redis"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		BotToken string `yaml:"bot_token"`
	} `yaml:"log"`
	Backup struct {
		Dir string `yaml:"dir"`
	} `yaml:"backup"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.Database.URL = "songs.sqlite"
	cfg.ChordPro.Dir = source.DefaultDir()
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Backup.Dir = "."
	return &cfg
}

// Load reads .env, then the optional YAML file at path, then environment
// overrides.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	override(&cfg.Database.URL, "OPENLP_DB_URL")
	override(&cfg.Database.AuthToken, "OPENLP_DB_AUTH_TOKEN")
	override(&cfg.ChordPro.Dir, "CHORDPRO_DIR")
	override(&cfg.Redis.Addr, "REDIS_ADDR")
	override(&cfg.Redis.Password, "REDIS_PASSWORD")
	override(&cfg.Log.Level, "LOG_LEVEL")
	override(&cfg.Log.Format, "LOG_FORMAT")
	override(&cfg.Log.BotToken, "LOG_BOT_TOKEN")
	override(&cfg.Backup.Dir, "BACKUP_DIR")
	if v, err := strconv.ParseBool(os.Getenv("CHORDPRO_STRICT")); err == nil {
		cfg.ChordPro.Strict = v
	}

	return cfg, nil
}

func override(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}
