// Package constants provides shared constants for the acquisition-forecast application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DiscountRate is the fixed annual rate used for net present value
	DiscountRate = 0.10
)

// Internal rate of return solver parameters
const (
	// IRRInitialGuess is the starting rate for Newton-Raphson
	IRRInitialGuess = 0.10

	// IRRTolerance is the absolute NPV tolerance at which the solver stops
	IRRTolerance = 1e-4

	// IRRMaxIterations caps the Newton-Raphson loop
	IRRMaxIterations = 100
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides of the deal configuration
	EnvPrefix = "ACQUISITION"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Default projection assumptions applied when a deal configuration omits them.
const (
	// DefaultInvestmentPeriod is the holding period in years
	DefaultInvestmentPeriod = 5

	// DefaultRevenueGrowthRate is the fractional annual revenue growth
	DefaultRevenueGrowthRate = 0.05

	// DefaultExitMultiple is applied to final-year profit
	DefaultExitMultiple = 3.0
)
