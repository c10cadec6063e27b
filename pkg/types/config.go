package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "jmlr-pipeline/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScrapeConfig holds settings for the volume-index scraping stage.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// CacheDir is where downloaded volume HTML pages are cached
	// (jmlr_v<NN>.html). Cached pages are reused on subsequent runs.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// ManifestDir is where volume manifests (jmlr_v<NN>.yaml) are written.
	ManifestDir string `json:"manifest_dir" yaml:"manifest_dir"`
}

// FetchConfig holds settings for the PDF download stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// PapersDir is the base directory for papers. Each volume gets
	// main_track/ and software_track/ subdirectories under v<NN>/.
	PapersDir string `json:"papers_dir" yaml:"papers_dir"`

	// MaxFileSizeMB skips any PDF whose Content-Length exceeds this many
	// megabytes (default 100).
	MaxFileSizeMB int `json:"max_file_size_mb" yaml:"max_file_size_mb"`
}

// ProcessBackend identifies the PDF metadata processor.
type ProcessBackend string

const (
	// BackendScript runs the external Python extraction script per PDF.
	BackendScript ProcessBackend = "script"
	// BackendNative parses PDFs in-process.
	BackendNative ProcessBackend = "native"
)

// ProcessConfig holds settings for the batch processing stage.
type ProcessConfig struct {
	// InputDir is scanned non-recursively for *.pdf files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputPath is the combined output artifact, truncated at run start.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Backend selects the processor: script or native.
	Backend ProcessBackend `json:"backend" yaml:"backend"`

	// ScriptPath is the external extraction script invoked per PDF when
	// Backend is "script".
	ScriptPath string `json:"script_path" yaml:"script_path"`
}

// ExtractConfig holds settings for native metadata extraction.
type ExtractConfig struct {
	// InputDir is scanned non-recursively for *.pdf files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// IndexDir is the base directory for the metadata database.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// Volume and Year annotate the extracted records; zero means unknown.
	Volume int `json:"volume" yaml:"volume"`
	Year   int `json:"year" yaml:"year"`

	// Track labels the records (e.g. "main_track", "software_track").
	Track string `json:"track" yaml:"track"`
}

// AIConfig holds shared settings for stages that call a chat-completions API.
type AIConfig struct {
	// BaseURL is the OpenAI-compatible API root
	// (e.g. "https://dashscope.aliyuncs.com/compatible-mode/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the model identifier (e.g. "qwen-plus").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// NormalizeConfig holds settings for affiliation normalization.
type NormalizeConfig struct {
	AIConfig `yaml:",inline"`

	// IndexDir is the base directory for the metadata database.
	IndexDir string `json:"index_dir" yaml:"index_dir"`
}

// StatsConfig holds settings for the statistics stage.
type StatsConfig struct {
	// IndexDir is the base directory for the metadata database.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// ManifestDir is where volume manifests are read from for track counts.
	ManifestDir string `json:"manifest_dir" yaml:"manifest_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scrape    ScrapeConfig    `json:"scrape" yaml:"scrape"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Process   ProcessConfig   `json:"process" yaml:"process"`
	Extract   ExtractConfig   `json:"extract" yaml:"extract"`
	Normalize NormalizeConfig `json:"normalize" yaml:"normalize"`
	Stats     StatsConfig     `json:"stats" yaml:"stats"`
}
