package models

import "time"

// CapBucket is a market-capitalization tier.
type CapBucket string

const (
	CapAny   CapBucket = "any"
	CapMicro CapBucket = "micro"
	CapSmall CapBucket = "small"
	CapMid   CapBucket = "mid"
	CapLarge CapBucket = "large"
)

// Market-cap thresholds in USD for bucket assignment.
const (
	microCapCeiling = 300_000_000
	smallCapCeiling = 2_000_000_000
	midCapCeiling   = 10_000_000_000
)

// BucketForMarketCap maps a raw market cap to its tier.
func BucketForMarketCap(marketCap float64) CapBucket {
	switch {
	case marketCap < microCapCeiling:
		return CapMicro
	case marketCap < smallCapCeiling:
		return CapSmall
	case marketCap < midCapCeiling:
		return CapMid
	default:
		return CapLarge
	}
}

// ScanMode selects a scanning strategy. Modes bias universe selection,
// scoring bonuses, and risk labeling; the empty mode applies no bias.
type ScanMode string

const (
	ModeDefault  ScanMode = ""
	ModeMomentum ScanMode = "momentum"
	ModeSqueeze  ScanMode = "squeeze"
	ModeCatalyst ScanMode = "catalyst"
)

// TickerMeta is a static registry entry for a scannable symbol.
type TickerMeta struct {
	Symbol      string    `json:"symbol" yaml:"symbol"`
	CompanyName string    `json:"company_name" yaml:"company_name"`
	Sector      string    `json:"sector" yaml:"sector"`
	CapBucket   CapBucket `json:"cap_bucket" yaml:"cap_bucket"`
}

// RawQuote is a single provider's snapshot for one ticker. Nil fields mean
// the provider did not return that value.
type RawQuote struct {
	Source    string   `json:"source"`
	Ticker    string   `json:"ticker"`
	Price     *float64 `json:"price"`
	PrevClose *float64 `json:"prev_close"`
	Volume    *int64   `json:"volume"`
	Timestamp *int64   `json:"timestamp"` // Unix seconds
}

// Complete reports whether the quote carries both fields the pipeline
// needs to compute a price change.
func (q RawQuote) Complete() bool {
	return q.Price != nil && q.PrevClose != nil
}

// RawNewsItem is a single provider's news record for one ticker.
// Datetime is an ISO-8601 string; the fixed format makes lexicographic
// ordering equivalent to chronological ordering.
type RawNewsItem struct {
	Source   string `json:"source"`
	Ticker   string `json:"ticker"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Datetime string `json:"datetime"`
	Category string `json:"category,omitempty"`
}

// FundamentalSnapshot is a single provider's fundamentals for one ticker.
type FundamentalSnapshot struct {
	Ticker    string   `json:"ticker"`
	MarketCap *float64 `json:"market_cap"`
	Float     *float64 `json:"float"`
	Sector    *string  `json:"sector"`
}

// ScoreBreakdown holds the four sub-scores, each in [0,100].
type ScoreBreakdown struct {
	Catalysts int `json:"catalysts"`
	Momentum  int `json:"momentum"`
	Structure int `json:"structure"`
	Sentiment int `json:"sentiment"`
}

// MomentumGrade is a letter grade for recent price-change magnitude.
type MomentumGrade string

const (
	GradeA MomentumGrade = "A"
	GradeB MomentumGrade = "B"
	GradeC MomentumGrade = "C"
	GradeD MomentumGrade = "D"
)

// SentimentLabel summarizes directional bias.
type SentimentLabel string

const (
	SentimentLong    SentimentLabel = "Long"
	SentimentShort   SentimentLabel = "Short"
	SentimentNeutral SentimentLabel = "Neutral"
)

// RiskLevel is a coarse volatility label.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ScanResult is one surviving ticker's record for a single scan. Results
// are assembled once and never mutated; persisted snapshots are copies.
type ScanResult struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`

	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
	Float         float64 `json:"float"`

	MomentumGrade MomentumGrade  `json:"momentum_grade"`
	Sentiment     SentimentLabel `json:"sentiment"`
	RiskLevel     RiskLevel      `json:"risk_level"`

	ExplosivePotential int            `json:"explosive_potential"`
	ScoreBreakdown     ScoreBreakdown `json:"score_breakdown"`

	CatalystSummary string   `json:"catalyst_summary"`
	Tags            []string `json:"tags"`

	NewsHeadline string `json:"news_headline,omitempty"`
	NewsURL      string `json:"news_url,omitempty"`
	NewsDatetime string `json:"news_datetime,omitempty"`
}

// ScanRequest is the orchestrator's input.
type ScanRequest struct {
	Mode    ScanMode    `json:"mode,omitempty"`
	Filters ScanFilters `json:"filters"`
}

// ScanSummary is per-scan telemetry returned alongside results.
type ScanSummary struct {
	ScanID           string         `json:"scan_id"`
	Mode             ScanMode       `json:"mode"`
	UniverseSize     int            `json:"universe_size"`
	QuotesMerged     int            `json:"quotes_merged"`
	Movers           []string       `json:"movers"`
	Results          int            `json:"results"`
	Duration         time.Duration  `json:"duration"`
	ProviderFailures map[string]int `json:"provider_failures,omitempty"`
	StartedAt        time.Time      `json:"started_at"`
}

// Float64 returns a pointer to v. Convenience for optional fields.
func Float64(v float64) *float64 { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
