// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 11

// Download Pipeline - these keys govern quality selection, concurrency and placement of fetched episodes.
const (
	DownloadQuality  = "download.quality"
	DownloadParallel = "download.parallel"
	DownloadPath     = "download.path"
)

// Fetch Behavior - these keys parameterize the retrying page fetcher used against the site and its mirrors.
const (
	FetchTimeout = "fetch.timeout"
	FetchRetries = "fetch.retries"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern general application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
