package config

type Config struct {
	Ledger  LedgerConfig
	Export  ExportConfig
	Metrics MetricsConfig
}

type Secrets struct {
	VictoriaMetrics VictoriaMetricsSecrets
	Promscale       PromscaleSecrets
	Influx          InfluxSecrets
	SQL             SqlSecrets

	// Alternative to the SQL struct, designed to be used with a heroku style env variable
	DatabaseURL string `json:"databaseUrl" env:"DATABASE_URL"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Ledger
///////////////////////////////////////////////////////////////////////////////////////

type LedgerConfig struct {
	// Binary to run, hledger unless overridden
	Command string `json:"command" env:"LEDGER_COMMAND"`
	// Global arguments passed before every query, eg: ["-f", "/data/main.journal"]
	Args []string `json:"args"`
	// Shifts every date back by 365*YearOffset days so forecasts fit in the store's accepted past window
	YearOffset int `json:"yearOffset" env:"YEAR_OFFSET"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Export
///////////////////////////////////////////////////////////////////////////////////////

const (
	BackendVictoriaMetrics = "victoriametrics"
	BackendPromscale       = "promscale"
	BackendInflux          = "influxdb"
	BackendPostgres        = "postgres"
)

type ExportConfig struct {
	Backend string `json:"backend" env:"EXPORT_BACKEND"`
	// 0 disables rate limiting
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	// only used by backends which have a cache to reset
	ResetCache *bool          `json:"resetCache"`
	Influx     InfluxConfig   `json:"influx"`
	Postgres   PostgresConfig `json:"postgres"`
}

func (e ExportConfig) ShouldResetCache() bool {
	return e.ResetCache == nil || *e.ResetCache
}

type InfluxConfig struct {
	Database string `json:"database"`
}

type PostgresConfig struct {
	Database  string `json:"database"`
	Table     string `json:"table"`
	BatchSize int    `json:"batchSize"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Metrics
///////////////////////////////////////////////////////////////////////////////////////

type MetricsConfig struct {
	// YYYY-MM-DD, quantified_self_age is only exported when set
	ReferenceDate string `json:"referenceDate" env:"REFERENCE_DATE"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Secrets
///////////////////////////////////////////////////////////////////////////////////////

type VictoriaMetricsSecrets struct {
	URI string `json:"uri" env:"VICTORIAMETRICS_URI"`
}

type PromscaleSecrets struct {
	URI string `json:"uri" env:"PROMSCALE_URI"`
}

type InfluxSecrets struct {
	InfluxEndpoint string `json:"influxEndpoint" env:"INFLUX_ENDPOINT"`
	InfluxUsername string `json:"influxUsername" env:"INFLUX_USERNAME"`
	InfluxPassword string `json:"influxPassword" env:"INFLUX_PASSWORD"`
}

type SqlSecrets struct {
	SqlHost     string `json:"sqlHost" env:"SQL_HOST"`
	SqlUsername string `json:"sqlUsername" env:"SQL_USERNAME"`
	SqlPassword string `json:"sqlPassword" env:"SQL_PASSWORD"`
}
