package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds tuning knobs loaded from config.yaml. Every field has a
// working default so the gateway runs without a config file at all.
type Settings struct {
	Providers struct {
		Gemini struct {
			Model           string  `yaml:"model"`
			BaseURL         string  `yaml:"base_url"`
			MaxOutputTokens int     `yaml:"max_output_tokens"`
			Temperature     float64 `yaml:"temperature"`
		} `yaml:"gemini"`
		Completion struct {
			Backend     string  `yaml:"backend"` // openai, deepseek, ark or ollama
			Model       string  `yaml:"model"`
			BaseURL     string  `yaml:"base_url"`
			MaxTokens   int     `yaml:"max_tokens"`
			Temperature float64 `yaml:"temperature"`
		} `yaml:"completion"`
	} `yaml:"providers"`

	Timeouts struct {
		ChatSecs      int `yaml:"chat_secs"`
		RecommendSecs int `yaml:"recommend_secs"`
		SearchSecs    int `yaml:"search_secs"`
		DescribeSecs  int `yaml:"describe_secs"`
		SentimentSecs int `yaml:"sentiment_secs"`
	} `yaml:"timeouts"`

	Chat struct {
		MaxMessageLen   int    `yaml:"max_message_len"`
		MaxHistoryTurns int    `yaml:"max_history_turns"`
		MaxCatalogItems int    `yaml:"max_catalog_items"`
		FallbackReply   string `yaml:"fallback_reply"`
	} `yaml:"chat"`

	Sentiment struct {
		PositiveWords []string `yaml:"positive_words"`
		NegativeWords []string `yaml:"negative_words"`
	} `yaml:"sentiment"`
}

// LoadSettings loads settings from a YAML file. A missing file is not an
// error; defaults are used instead.
func LoadSettings(path string) (*Settings, error) {
	var settings Settings
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			settings.ApplyDefaults()
			return &settings, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	settings.ApplyDefaults()
	return &settings, nil
}

// ApplyDefaults fills in zero-valued fields.
func (s *Settings) ApplyDefaults() {
	if s.Providers.Gemini.Model == "" {
		s.Providers.Gemini.Model = "gemini-2.0-flash"
	}
	if s.Providers.Gemini.BaseURL == "" {
		s.Providers.Gemini.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if s.Providers.Gemini.MaxOutputTokens == 0 {
		s.Providers.Gemini.MaxOutputTokens = 1024
	}
	if s.Providers.Completion.Backend == "" {
		s.Providers.Completion.Backend = "openai"
	}
	if s.Providers.Completion.Model == "" {
		s.Providers.Completion.Model = "gpt-4o-mini"
	}
	if s.Providers.Completion.MaxTokens == 0 {
		s.Providers.Completion.MaxTokens = 1024
	}

	if s.Timeouts.ChatSecs == 0 {
		s.Timeouts.ChatSecs = 90
	}
	if s.Timeouts.RecommendSecs == 0 {
		s.Timeouts.RecommendSecs = 30
	}
	if s.Timeouts.SearchSecs == 0 {
		s.Timeouts.SearchSecs = 30
	}
	if s.Timeouts.DescribeSecs == 0 {
		s.Timeouts.DescribeSecs = 60
	}
	if s.Timeouts.SentimentSecs == 0 {
		s.Timeouts.SentimentSecs = 15
	}

	if s.Chat.MaxMessageLen == 0 {
		s.Chat.MaxMessageLen = 500
	}
	if s.Chat.MaxHistoryTurns == 0 {
		s.Chat.MaxHistoryTurns = 50
	}
	if s.Chat.MaxCatalogItems == 0 {
		s.Chat.MaxCatalogItems = 100
	}
	if s.Chat.FallbackReply == "" {
		s.Chat.FallbackReply = "Sorry, our assistant is unavailable right now. " +
			"Please reach out to support@shopassist.example and we will get back to you shortly."
	}

	if len(s.Sentiment.PositiveWords) == 0 {
		s.Sentiment.PositiveWords = []string{
			"great", "good", "excellent", "amazing", "awesome",
			"love", "best", "perfect", "fantastic", "wonderful",
		}
	}
	if len(s.Sentiment.NegativeWords) == 0 {
		s.Sentiment.NegativeWords = []string{
			"terrible", "awful", "worst", "poor", "hate",
			"broken", "disappointing", "useless", "horrible", "refund",
		}
	}
}
