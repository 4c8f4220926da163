package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed labels.yaml
var labelsYAML []byte

type Config struct {
	Camera   CameraConfig
	Tracker  TrackerConfig
	Emotion  EmotionConfig
	Ollama   OllamaConfig
	OpenAI   OpenAIConfig
	EventLog EventLogConfig
	Web      WebConfig
	Labels   LabelsConfig
}

type CameraConfig struct {
	Index       int    // capture device index (default 0)
	CascadePath string // Haar cascade XML describing frontal faces
}

type TrackerConfig struct {
	MaxDisappeared int     // missed frames before an identity is dropped (default 15)
	MaxDistance    float64 // centroid distance beyond which boxes never match (default 80)
}

type EmotionConfig struct {
	Provider string // "ollama", "openai" or "" to disable classification
	Every    int    // classify every Nth frame (default 5)
}

type OllamaConfig struct {
	URL   string // defaults to http://localhost:11434
	Model string // defaults to llama3.2-vision:11b
}

type OpenAIConfig struct {
	Token string
}

type EventLogConfig struct {
	Path        string // JSONL file path (default logs/emotions.jsonl)
	DatabaseURL string // PostgreSQL URL; when set events go to the database instead
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins string // comma-separated list, "*" allows any origin
}

type LabelsConfig struct {
	Labels []string `yaml:"labels"`
}

// envInt reads an environment variable and parses it as a non-negative
// integer. Returns the default value if the env var is unset, empty, or
// invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var labels LabelsConfig
	if err := yaml.Unmarshal(labelsYAML, &labels); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded labels.yaml: " + err.Error())
	}

	return &Config{
		Camera: CameraConfig{
			Index:       envInt("CAMERA_INDEX", 0),
			CascadePath: envString("FACE_CASCADE_PATH", "haarcascade_frontalface_default.xml"),
		},
		Tracker: TrackerConfig{
			MaxDisappeared: envInt("TRACKER_MAX_DISAPPEARED", 15),
			MaxDistance:    envFloat("TRACKER_MAX_DISTANCE", 80),
		},
		Emotion: EmotionConfig{
			Provider: os.Getenv("EMOTION_PROVIDER"),
			Every:    envInt("EMOTION_EVERY", 5),
		},
		Ollama: OllamaConfig{
			URL:   os.Getenv("OLLAMA_URL"),
			Model: os.Getenv("OLLAMA_MODEL"),
		},
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
		},
		EventLog: EventLogConfig{
			Path:        envString("EVENTLOG_PATH", "logs/emotions.jsonl"),
			DatabaseURL: os.Getenv("EVENTLOG_DATABASE_URL"),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8000),
			AllowedOrigins: envString("WEB_ALLOWED_ORIGINS", "*"),
		},
		Labels: labels,
	}
}
