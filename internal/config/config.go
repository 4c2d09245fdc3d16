package config

import "strings"

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
	Listen   string `mapstructure:"listen"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// UpstreamConfig controls access to the discussion platform.
type UpstreamConfig struct {
	PublicBaseURL     string `mapstructure:"public_base_url"`
	OAuthBaseURL      string `mapstructure:"oauth_base_url"`
	TokenURL          string `mapstructure:"token_url"`
	ClientID          string `mapstructure:"client_id"`
	ClientSecret      string `mapstructure:"client_secret"`
	UserAgent         string `mapstructure:"user_agent"`
	Timeout           string `mapstructure:"timeout"` // duration string, e.g., "10s"
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	Burst             int    `mapstructure:"burst"`
}

// HasCredentials reports whether both halves of the app credential pair are set.
func (u UpstreamConfig) HasCredentials() bool {
	return strings.TrimSpace(u.ClientID) != "" && strings.TrimSpace(u.ClientSecret) != ""
}

// PipelineConfig controls the aggregation pipeline.
type PipelineConfig struct {
	ProxyURL       string `mapstructure:"proxy_url"` // empty: use the in-process gateway
	PostsPerTopic  int    `mapstructure:"posts_per_topic"`
	RepliesPerItem int    `mapstructure:"replies_per_item"`
	ListLimit      int    `mapstructure:"list_limit"`
	BranchTimeout  string `mapstructure:"branch_timeout"`
	MaxParallel    int    `mapstructure:"max_parallel"`
}

// SynthesisConfig selects the report synthesizer.
type SynthesisConfig struct {
	Provider string `mapstructure:"provider"` // rephrase | openai
	BaseURL  string `mapstructure:"base_url"`
	Timeout  string `mapstructure:"timeout"`
}

// OpenAIConfig is used when synthesis.provider is "openai".
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// ReportsConfig controls report export and the background refresher.
type ReportsConfig struct {
	OutputDir       string   `mapstructure:"output_dir"`
	TTL             string   `mapstructure:"ttl"`
	RefreshInterval string   `mapstructure:"refresh_interval"` // empty disables the refresher
	RefreshTopics   []string `mapstructure:"refresh_topics"`
	Title           string   `mapstructure:"title"`
}

// TopicConfig maps one user-facing topic to its discussion boards.
type TopicConfig struct {
	Name        string   `mapstructure:"name"`
	Sources     []string `mapstructure:"sources"`
	Description string   `mapstructure:"description"`
}

// Config is the top-level configuration structure.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Synthesis SynthesisConfig `mapstructure:"synthesis"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Reports   ReportsConfig   `mapstructure:"reports"`
	Topics    []TopicConfig   `mapstructure:"topics"`
}

// DefaultTopics is the built-in topic table used when none is configured.
func DefaultTopics() []TopicConfig {
	return []TopicConfig{
		{Name: "Technology", Sources: []string{"tesla", "teslaindia"}, Description: "Latest tech news and innovations"},
		{Name: "Gaming", Sources: []string{"gaming", "GameDeals"}, Description: "Gaming news, deals & discussions"},
		{Name: "Science", Sources: []string{"science", "Physics"}, Description: "Scientific discoveries & research"},
		{Name: "Finance & Investing", Sources: []string{"personalfinance", "investing"}, Description: "Money management & investment tips"},
		{Name: "Fitness & Health", Sources: []string{"fitness", "nutrition"}, Description: "Health, fitness & wellness"},
		{Name: "Movies & TV", Sources: []string{"movies", "television"}, Description: "Entertainment & media content"},
		{Name: "Books & Literature", Sources: []string{"books", "literature"}, Description: "Literary discussions & reviews"},
		{Name: "India News & Culture", Sources: []string{"Indianews", "India"}, Description: "Indian news, culture & discussions"},
	}
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.Listen == "" {
		c.App.Listen = ":8080"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Upstream.PublicBaseURL == "" {
		c.Upstream.PublicBaseURL = "https://www.reddit.com"
	}
	if c.Upstream.OAuthBaseURL == "" {
		c.Upstream.OAuthBaseURL = "https://oauth.reddit.com"
	}
	if c.Upstream.TokenURL == "" {
		c.Upstream.TokenURL = "https://www.reddit.com/api/v1/access_token"
	}
	if strings.TrimSpace(c.Upstream.UserAgent) == "" {
		c.Upstream.UserAgent = "topic-pulse/1.0"
	}
	if c.Upstream.Timeout == "" {
		c.Upstream.Timeout = "10s"
	}
	if c.Upstream.RequestsPerMinute <= 0 {
		c.Upstream.RequestsPerMinute = 60
	}
	if c.Upstream.Burst <= 0 {
		c.Upstream.Burst = 10
	}
	if c.Pipeline.PostsPerTopic <= 0 {
		c.Pipeline.PostsPerTopic = 15
	}
	if c.Pipeline.RepliesPerItem <= 0 {
		c.Pipeline.RepliesPerItem = 9
	}
	if c.Pipeline.ListLimit <= 0 {
		c.Pipeline.ListLimit = 12
	}
	if c.Pipeline.BranchTimeout == "" {
		c.Pipeline.BranchTimeout = "15s"
	}
	if c.Pipeline.MaxParallel <= 0 {
		c.Pipeline.MaxParallel = 8
	}
	if c.Synthesis.Provider == "" {
		c.Synthesis.Provider = "rephrase"
	}
	c.Synthesis.Provider = strings.ToLower(strings.TrimSpace(c.Synthesis.Provider))
	if c.Synthesis.Timeout == "" {
		c.Synthesis.Timeout = "120s"
	}
	if c.Reports.OutputDir == "" {
		c.Reports.OutputDir = "./out"
	}
	if c.Reports.TTL == "" {
		c.Reports.TTL = "720h"
	}
	if c.Reports.Title == "" {
		c.Reports.Title = "Sentiment report: {.Topic} {.CurrentDate}"
	}
	if len(c.Topics) == 0 {
		c.Topics = DefaultTopics()
	}
	// Drop blank source names; a topic without sources passes through as itself.
	for i := range c.Topics {
		t := &c.Topics[i]
		t.Name = strings.TrimSpace(t.Name)
		srcs := make([]string, 0, len(t.Sources))
		for _, s := range t.Sources {
			if s = strings.TrimSpace(s); s != "" {
				srcs = append(srcs, s)
			}
		}
		t.Sources = srcs
	}
}
