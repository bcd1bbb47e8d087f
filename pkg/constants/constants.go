// Package constants provides shared constants for the mortgage-amortization application.
package constants

// DateLayout is the format expected for dates in config files and requests
// and is also the output date format.
const DateLayout = "2006-01-02"

// MonthLayout is the month-granularity date format, accepted as input
// shorthand for the first day of the month.
const MonthLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultCurrencySymbol is attached to amounts for display only
	DefaultCurrencySymbol = "$"

	// DefaultDownpaymentPercent is used when neither a downpayment percentage
	// nor an amount is configured
	DefaultDownpaymentPercent = 20.0
)

// Usual input bounds. The engine does not enforce these. The CLI only warns
// when they are crossed; the HTTP server rejects term and pre-payment values
// beyond them.
const (
	// MaxAnnualRatePercent is the highest rate accepted without a warning
	MaxAnnualRatePercent = 20.0

	// MaxTermYears is the longest term accepted without a warning
	MaxTermYears = 50

	// MaxPrePaymentMonths caps grace and deferral periods
	MaxPrePaymentMonths = 120
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (64 KB)
	DefaultMaxUploadSizeBytes int64 = 64 * 1024

	// DefaultCacheTTLSeconds is how long a computed schedule stays cached
	DefaultCacheTTLSeconds = 600

	// DefaultCacheMaxEntries caps the in-process result cache
	DefaultCacheMaxEntries = 1024

	// CacheTypeMemory selects the in-process result cache
	CacheTypeMemory = "memory"

	// CacheTypeRedis selects the Redis result cache
	CacheTypeRedis = "redis"

	// CacheTypeNone disables result caching
	CacheTypeNone = "none"
)
