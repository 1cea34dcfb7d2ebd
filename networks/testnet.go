package networks

import (
	"os"
	"strings"
	"time"

	"github.com/stellar/go/network"
)

var StellarTestnet Network = NewStellarTestnet()

type stellarTestnet struct {
	horizonURL string
}

func NewStellarTestnet() *stellarTestnet {
	result := &stellarTestnet{
		horizonURL: "https://horizon-testnet.stellar.org",
	}
	custom := strings.Trim(os.Getenv(result.GetHorizonVariableName()), " ")
	if custom != "" {
		result.horizonURL = custom
	}
	return result
}

func (self *stellarTestnet) GetName() string {
	return "testnet"
}

func (self *stellarTestnet) GetPassphrase() string {
	return network.TestNetworkPassphrase
}

func (self *stellarTestnet) GetNativeAssetSymbol() string {
	return "XLM"
}

func (self *stellarTestnet) GetHorizonVariableName() string {
	return "STELLAR_TESTNET_HORIZON"
}

func (self *stellarTestnet) GetHorizonURL() string {
	return self.horizonURL
}

// testnet accounts are not listed in the public directory
func (self *stellarTestnet) GetDirectoryURL() string {
	return ""
}

func (self *stellarTestnet) GetPriceFeedURL() string {
	return "https://api.satoshipay.io/testnet/coinmarketcap/v1/cryptocurrency/quotes/latest"
}

func (self *stellarTestnet) GetBaseFee() int64 {
	return 100
}

func (self *stellarTestnet) GetBaseReserve() string {
	return "0.5"
}

func (self *stellarTestnet) GetPriceRefreshInterval() time.Duration {
	return 60 * time.Second
}
