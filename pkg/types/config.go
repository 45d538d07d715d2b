// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AIConfig holds shared settings for stages that call a completion API.
type AIConfig struct {
	// Model is the completion model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint (optional).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ChunkStoreConfig holds settings for the corpus similarity index.
type ChunkStoreConfig struct {
	// IndexDir is the directory containing the index database
	// (default "corpus/index").
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// TopK is the default number of chunks returned per query (default 5).
	TopK int `json:"top_k" yaml:"top_k"`
}

// ImageConfig holds settings for the image generation stage.
type ImageConfig struct {
	// APIKey is the Gemini credential. Empty disables image generation;
	// the stage records a skip instead of failing.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the image model identifier (default "gemini-2.5-flash-image").
	Model string `json:"model" yaml:"model"`
}

// PipelineConfig groups the stage configurations for a generation run.
type PipelineConfig struct {
	Completion AIConfig         `json:"completion" yaml:"completion"`
	ChunkStore ChunkStoreConfig `json:"chunk_store" yaml:"chunk_store"`
	Images     ImageConfig      `json:"images" yaml:"images"`

	// OutputDir is the directory for exported content bundles
	// (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}
