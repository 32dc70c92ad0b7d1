package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 15s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubenrich/0.2 (mailto:contact@sshoc.nl)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CascadeConfig holds settings for the abstract-search cascade.
type CascadeConfig struct {
	HTTPConfig `yaml:",inline"`

	// SubstantialAbstractLen is the early-exit threshold: once an adapter
	// yields an abstract longer than this, the cascade stops. The value is
	// inherited from the original pipeline and is tunable, not proven optimal.
	SubstantialAbstractLen int `json:"substantial_abstract_len" yaml:"substantial_abstract_len"`

	// AdapterDelay is the fixed pacing delay applied before each adapter's
	// network call (default 500ms).
	AdapterDelay time.Duration `json:"adapter_delay" yaml:"adapter_delay"`

	// ScholarDelay is the pacing delay for the Google Scholar scrape
	// adapter, which is more rate-limit sensitive (default 1s).
	ScholarDelay time.Duration `json:"scholar_delay" yaml:"scholar_delay"`

	// DeepExtraction controls whether a result URL is fetched for a second,
	// content-scraping pass that may yield a longer abstract.
	DeepExtraction bool `json:"deep_extraction" yaml:"deep_extraction"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// COREAPIKey is an optional key for the CORE aggregator API.
	COREAPIKey string `json:"core_api_key,omitempty" yaml:"core_api_key,omitempty"`

	// OpenAlexEmail is sent as mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`
}

// ConceptConfig holds settings for ELSST concept resolution.
type ConceptConfig struct {
	HTTPConfig `yaml:",inline"`

	// SimilarityThreshold is the minimum similarity score for a
	// context-based vocabulary match. 0.30 is the strict default; 0.15
	// casts a wider net. Both values are carried over from the original
	// pipeline as-is.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// PrimaryThreshold partitions concepts into the primary tier (default 0.7).
	PrimaryThreshold float64 `json:"primary_threshold" yaml:"primary_threshold"`

	// SecondaryThreshold is the floor below which concepts are discarded (default 0.3).
	SecondaryThreshold float64 `json:"secondary_threshold" yaml:"secondary_threshold"`

	// EnableAPISearch controls the ELSST Skosmos API fallback adapter.
	EnableAPISearch bool `json:"enable_api_search" yaml:"enable_api_search"`
}

// ORCIDConfig holds settings for ORCID author resolution.
type ORCIDConfig struct {
	HTTPConfig `yaml:",inline"`
}

// CacheConfig holds the on-disk cache locations. Collaborators may
// pre-seed these files for offline operation.
type CacheConfig struct {
	// Dir is the cache directory (default "cache").
	Dir string `json:"dir" yaml:"dir"`
}

// CatalogConfig holds settings for the SQLite catalog store.
type CatalogConfig struct {
	// Dir is the base directory for the catalog database (default "catalog").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// BatchConfig holds settings for the batch driver.
type BatchConfig struct {
	// PublicationDelay is the pause between consecutive publications
	// (default 2s), keeping request pacing polite across a whole run.
	PublicationDelay time.Duration `json:"publication_delay" yaml:"publication_delay"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Cascade  CascadeConfig `json:"cascade" yaml:"cascade"`
	Concepts ConceptConfig `json:"concepts" yaml:"concepts"`
	ORCID    ORCIDConfig   `json:"orcid" yaml:"orcid"`
	Cache    CacheConfig   `json:"cache" yaml:"cache"`
	Catalog  CatalogConfig `json:"catalog" yaml:"catalog"`
	Batch    BatchConfig   `json:"batch" yaml:"batch"`
}

// Defaults fills unset fields with their default values.
func (c *PipelineConfig) Defaults() {
	if c.Cascade.Timeout == 0 {
		c.Cascade.Timeout = 15 * time.Second
	}
	if c.Cascade.UserAgent == "" {
		c.Cascade.UserAgent = "pubenrich/0.2"
	}
	if c.Cascade.SubstantialAbstractLen == 0 {
		c.Cascade.SubstantialAbstractLen = 200
	}
	if c.Cascade.AdapterDelay == 0 {
		c.Cascade.AdapterDelay = 500 * time.Millisecond
	}
	if c.Cascade.ScholarDelay == 0 {
		c.Cascade.ScholarDelay = time.Second
	}
	if c.Concepts.Timeout == 0 {
		c.Concepts.Timeout = 10 * time.Second
	}
	if c.Concepts.UserAgent == "" {
		c.Concepts.UserAgent = c.Cascade.UserAgent
	}
	if c.Concepts.SimilarityThreshold == 0 {
		c.Concepts.SimilarityThreshold = 0.30
	}
	if c.Concepts.PrimaryThreshold == 0 {
		c.Concepts.PrimaryThreshold = 0.7
	}
	if c.Concepts.SecondaryThreshold == 0 {
		c.Concepts.SecondaryThreshold = 0.3
	}
	if c.ORCID.Timeout == 0 {
		c.ORCID.Timeout = 10 * time.Second
	}
	if c.ORCID.UserAgent == "" {
		c.ORCID.UserAgent = c.Cascade.UserAgent
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "cache"
	}
	if c.Catalog.Dir == "" {
		c.Catalog.Dir = "catalog"
	}
	if c.Catalog.MaxResults == 0 {
		c.Catalog.MaxResults = 20
	}
	if c.Batch.PublicationDelay == 0 {
		c.Batch.PublicationDelay = 2 * time.Second
	}
}
