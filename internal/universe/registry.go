package universe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

// registryFile is the YAML shape for an external universe override.
type registryFile struct {
	Universe struct {
		Name    string              `yaml:"name"`
		Tickers []models.TickerMeta `yaml:"tickers"`
	} `yaml:"universe"`
}

// LoadRegistry reads a curated ticker registry from a YAML file. The file
// replaces the built-in registry wholesale; there is no merging.
func LoadRegistry(path string) ([]models.TickerMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read universe file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse universe file: %w", err)
	}
	if len(file.Universe.Tickers) == 0 {
		return nil, fmt.Errorf("universe file %s contains no tickers", path)
	}
	return file.Universe.Tickers, nil
}

// DefaultRegistry returns the built-in curated registry. Order is fixed;
// selection preserves it. The list is reference data, not a market feed.
func DefaultRegistry() []models.TickerMeta {
	return []models.TickerMeta{
		{Symbol: "AAPL", CompanyName: "Apple Inc.", Sector: "Technology", CapBucket: models.CapLarge},
		{Symbol: "MSFT", CompanyName: "Microsoft Corporation", Sector: "Technology", CapBucket: models.CapLarge},
		{Symbol: "NVDA", CompanyName: "NVIDIA Corporation", Sector: "Technology", CapBucket: models.CapLarge},
		{Symbol: "AMD", CompanyName: "Advanced Micro Devices", Sector: "Technology", CapBucket: models.CapLarge},
		{Symbol: "TSLA", CompanyName: "Tesla, Inc.", Sector: "Consumer Cyclical", CapBucket: models.CapLarge},
		{Symbol: "PLTR", CompanyName: "Palantir Technologies", Sector: "Technology", CapBucket: models.CapLarge},
		{Symbol: "SOFI", CompanyName: "SoFi Technologies", Sector: "Financial Services", CapBucket: models.CapMid},
		{Symbol: "HOOD", CompanyName: "Robinhood Markets", Sector: "Financial Services", CapBucket: models.CapMid},
		{Symbol: "RIVN", CompanyName: "Rivian Automotive", Sector: "Consumer Cyclical", CapBucket: models.CapMid},
		{Symbol: "LCID", CompanyName: "Lucid Group", Sector: "Consumer Cyclical", CapBucket: models.CapSmall},
		{Symbol: "IONQ", CompanyName: "IonQ, Inc.", Sector: "Technology", CapBucket: models.CapMid},
		{Symbol: "RGTI", CompanyName: "Rigetti Computing", Sector: "Technology", CapBucket: models.CapSmall},
		{Symbol: "QBTS", CompanyName: "D-Wave Quantum", Sector: "Technology", CapBucket: models.CapSmall},
		{Symbol: "SMCI", CompanyName: "Super Micro Computer", Sector: "Technology", CapBucket: models.CapMid},
		{Symbol: "MARA", CompanyName: "MARA Holdings", Sector: "Financial Services", CapBucket: models.CapSmall},
		{Symbol: "RIOT", CompanyName: "Riot Platforms", Sector: "Financial Services", CapBucket: models.CapSmall},
		{Symbol: "COIN", CompanyName: "Coinbase Global", Sector: "Financial Services", CapBucket: models.CapMid},
		{Symbol: "MSTR", CompanyName: "MicroStrategy", Sector: "Technology", CapBucket: models.CapMid},
		{Symbol: "GME", CompanyName: "GameStop Corp.", Sector: "Consumer Cyclical", CapBucket: models.CapSmall},
		{Symbol: "AMC", CompanyName: "AMC Entertainment", Sector: "Communication Services", CapBucket: models.CapSmall},
		{Symbol: "BBAI", CompanyName: "BigBear.ai Holdings", Sector: "Technology", CapBucket: models.CapMicro},
		{Symbol: "SOUN", CompanyName: "SoundHound AI", Sector: "Technology", CapBucket: models.CapSmall},
		{Symbol: "SERV", CompanyName: "Serve Robotics", Sector: "Technology", CapBucket: models.CapMicro},
		{Symbol: "ACHR", CompanyName: "Archer Aviation", Sector: "Industrials", CapBucket: models.CapSmall},
		{Symbol: "JOBY", CompanyName: "Joby Aviation", Sector: "Industrials", CapBucket: models.CapSmall},
		{Symbol: "RKLB", CompanyName: "Rocket Lab USA", Sector: "Industrials", CapBucket: models.CapMid},
		{Symbol: "ASTS", CompanyName: "AST SpaceMobile", Sector: "Communication Services", CapBucket: models.CapSmall},
		{Symbol: "LUNR", CompanyName: "Intuitive Machines", Sector: "Industrials", CapBucket: models.CapSmall},
		{Symbol: "SAVA", CompanyName: "Cassava Sciences", Sector: "Healthcare", CapBucket: models.CapMicro},
		{Symbol: "OCGN", CompanyName: "Ocugen, Inc.", Sector: "Healthcare", CapBucket: models.CapMicro},
		{Symbol: "NVAX", CompanyName: "Novavax, Inc.", Sector: "Healthcare", CapBucket: models.CapSmall},
		{Symbol: "MRNA", CompanyName: "Moderna, Inc.", Sector: "Healthcare", CapBucket: models.CapMid},
		{Symbol: "CRSP", CompanyName: "CRISPR Therapeutics", Sector: "Healthcare", CapBucket: models.CapSmall},
		{Symbol: "EDIT", CompanyName: "Editas Medicine", Sector: "Healthcare", CapBucket: models.CapMicro},
		{Symbol: "BBIO", CompanyName: "BridgeBio Pharma", Sector: "Healthcare", CapBucket: models.CapSmall},
		{Symbol: "HIMS", CompanyName: "Hims & Hers Health", Sector: "Healthcare", CapBucket: models.CapMid},
		{Symbol: "UPST", CompanyName: "Upstart Holdings", Sector: "Financial Services", CapBucket: models.CapSmall},
		{Symbol: "AFRM", CompanyName: "Affirm Holdings", Sector: "Financial Services", CapBucket: models.CapMid},
		{Symbol: "OPEN", CompanyName: "Opendoor Technologies", Sector: "Real Estate", CapBucket: models.CapMicro},
		{Symbol: "CHPT", CompanyName: "ChargePoint Holdings", Sector: "Industrials", CapBucket: models.CapMicro},
		{Symbol: "PLUG", CompanyName: "Plug Power", Sector: "Industrials", CapBucket: models.CapMicro},
		{Symbol: "FCEL", CompanyName: "FuelCell Energy", Sector: "Industrials", CapBucket: models.CapMicro},
		{Symbol: "RUN", CompanyName: "Sunrun Inc.", Sector: "Technology", CapBucket: models.CapSmall},
		{Symbol: "ENPH", CompanyName: "Enphase Energy", Sector: "Technology", CapBucket: models.CapMid},
		{Symbol: "F", CompanyName: "Ford Motor Company", Sector: "Consumer Cyclical", CapBucket: models.CapLarge},
		{Symbol: "T", CompanyName: "AT&T Inc.", Sector: "Communication Services", CapBucket: models.CapLarge},
		{Symbol: "PFE", CompanyName: "Pfizer Inc.", Sector: "Healthcare", CapBucket: models.CapLarge},
		{Symbol: "INTC", CompanyName: "Intel Corporation", Sector: "Technology", CapBucket: models.CapLarge},
		{Symbol: "BABA", CompanyName: "Alibaba Group", Sector: "Consumer Cyclical", CapBucket: models.CapLarge},
		{Symbol: "NIO", CompanyName: "NIO Inc.", Sector: "Consumer Cyclical", CapBucket: models.CapSmall},
	}
}

// Lookup returns the registry entry for a symbol, or false when absent.
func Lookup(registry []models.TickerMeta, symbol string) (models.TickerMeta, bool) {
	for _, meta := range registry {
		if meta.Symbol == symbol {
			return meta, true
		}
	}
	return models.TickerMeta{}, false
}
