package publishers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/samvad-hq/tmdb-people/internal/configfile"
)

const (
	// Supported publisher types.
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeHTTP      = "http"
	TypeGCPPubSub = "gcp_pubsub"

	httpDefaultTimeoutSeconds = 5
)

type publishersFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig is a single entry of the publishers file. Exactly the block
// matching Type is read.
type PublisherConfig struct {
	ID        string                    `json:"id" yaml:"id"`
	Type      string                    `json:"type" yaml:"type"`
	Enabled   *bool                     `json:"enabled" yaml:"enabled"`
	SQS       *SQSPublisherConfig       `json:"sqs" yaml:"sqs"`
	SNS       *SNSPublisherConfig       `json:"sns" yaml:"sns"`
	HTTP      *HTTPPublisherConfig      `json:"http" yaml:"http"`
	GCPPubSub *GCPPubSubPublisherConfig `json:"gcp_pubsub" yaml:"gcp_pubsub"`
}

// AWSCredentials optionally pins static credentials instead of the default chain.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

// SQSPublisherConfig holds AWS SQS settings.
type SQSPublisherConfig struct {
	QueueURL    string          `json:"uri" yaml:"uri"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

func (c SQSPublisherConfig) normalized() *SQSPublisherConfig {
	c.QueueURL = strings.TrimSpace(c.QueueURL)
	c.Region = strings.TrimSpace(c.Region)
	return &c
}

func (c *SQSPublisherConfig) validate() error {
	switch {
	case c.QueueURL == "":
		return errors.New("sqs.uri is required")
	case c.Region == "":
		return errors.New("sqs.region is required")
	}
	return nil
}

// SNSPublisherConfig holds AWS SNS settings.
type SNSPublisherConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

func (c SNSPublisherConfig) normalized() *SNSPublisherConfig {
	c.TopicARN = strings.TrimSpace(c.TopicARN)
	c.Region = strings.TrimSpace(c.Region)
	return &c
}

func (c *SNSPublisherConfig) validate() error {
	switch {
	case c.TopicARN == "":
		return errors.New("sns.topic_arn is required")
	case c.Region == "":
		return errors.New("sns.region is required")
	}
	return nil
}

// HTTPPublisherConfig holds webhook settings. Method defaults to POST and the
// timeout to 5 seconds.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

func (c HTTPPublisherConfig) normalized() *HTTPPublisherConfig {
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = http.MethodPost
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = httpDefaultTimeoutSeconds
	}
	c.Headers = lo.MapEntries(c.Headers, func(k, v string) (string, string) {
		return strings.TrimSpace(k), strings.TrimSpace(v)
	})
	c.Headers = lo.PickBy(c.Headers, func(k, v string) bool { return k != "" && v != "" })
	if len(c.Headers) == 0 {
		c.Headers = nil
	}
	return &c
}

func (c *HTTPPublisherConfig) validate() error {
	if c.URL == "" {
		return errors.New("http.url is required")
	}
	return nil
}

// GCPPubSubPublisherConfig holds Google Cloud Pub/Sub settings.
type GCPPubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

func (c GCPPubSubPublisherConfig) normalized() *GCPPubSubPublisherConfig {
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.Topic = strings.TrimSpace(c.Topic)
	c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
	return &c
}

func (c *GCPPubSubPublisherConfig) validate() error {
	if c.ProjectID == "" || c.Topic == "" {
		return errors.New("gcp_pubsub.project_id and gcp_pubsub.topic are required")
	}
	return nil
}

// EnabledValue returns the enabled flag, defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

func (cfg PublisherConfig) normalized() PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		cfg.Enabled = lo.ToPtr(true)
	}
	if cfg.SQS != nil {
		cfg.SQS = cfg.SQS.normalized()
	}
	if cfg.SNS != nil {
		cfg.SNS = cfg.SNS.normalized()
	}
	if cfg.HTTP != nil {
		cfg.HTTP = cfg.HTTP.normalized()
	}
	if cfg.GCPPubSub != nil {
		cfg.GCPPubSub = cfg.GCPPubSub.normalized()
	}
	return cfg
}

// validatePublisherConfig checks the id, the type and the block the type needs.
func validatePublisherConfig(cfg PublisherConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}

	var block interface{ validate() error }
	switch cfg.Type {
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	case TypeSQS:
		if cfg.SQS != nil {
			block = cfg.SQS
		}
	case TypeSNS:
		if cfg.SNS != nil {
			block = cfg.SNS
		}
	case TypeHTTP:
		if cfg.HTTP != nil {
			block = cfg.HTTP
		}
	case TypeGCPPubSub:
		if cfg.GCPPubSub != nil {
			block = cfg.GCPPubSub
		}
	default:
		return fmt.Errorf("unsupported publisher type %q for publisher %q", cfg.Type, cfg.ID)
	}

	if block == nil {
		return fmt.Errorf("%s config required for publisher %q", cfg.Type, cfg.ID)
	}
	if err := block.validate(); err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return nil
}

// ConfigRegistry holds the publisher entries of a publishers file, in file order.
type ConfigRegistry struct {
	publishers []PublisherConfig
	idx        map[string]PublisherConfig
}

// LoadRegistry loads the publisher registry from a YAML or JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	var parsed publishersFile
	if err := configfile.Load(path, "publishers", &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	reg := &ConfigRegistry{
		publishers: make([]PublisherConfig, 0, len(parsed.Publishers)),
		idx:        make(map[string]PublisherConfig, len(parsed.Publishers)),
	}
	for i, entry := range parsed.Publishers {
		cfg := entry.normalized()
		if err := validatePublisherConfig(cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, exists := reg.idx[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.publishers = append(reg.publishers, cfg)
		reg.idx[cfg.ID] = cfg
	}
	return reg, nil
}

// ByID returns the publisher config registered under id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	cfg, ok := r.idx[strings.TrimSpace(id)]
	return cfg, ok
}

// All returns a copy of every configured publisher.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	out := make([]PublisherConfig, len(r.publishers))
	copy(out, r.publishers)
	return out
}

// Enabled returns the publishers that are switched on.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	return lo.Filter(r.All(), func(cfg PublisherConfig, _ int) bool { return cfg.EnabledValue() })
}
