package networks

import (
	"os"
	"strings"
	"time"

	"github.com/stellar/go/network"
)

var StellarMainnet Network = NewStellarMainnet()

type stellarMainnet struct {
	horizonURL string
}

func NewStellarMainnet() *stellarMainnet {
	result := &stellarMainnet{
		horizonURL: "https://horizon.stellar.org",
	}
	custom := strings.Trim(os.Getenv(result.GetHorizonVariableName()), " ")
	if custom != "" {
		result.horizonURL = custom
	}
	return result
}

func (self *stellarMainnet) GetName() string {
	return "mainnet"
}

func (self *stellarMainnet) GetPassphrase() string {
	return network.PublicNetworkPassphrase
}

func (self *stellarMainnet) GetNativeAssetSymbol() string {
	return "XLM"
}

func (self *stellarMainnet) GetHorizonVariableName() string {
	return "STELLAR_MAINNET_HORIZON"
}

func (self *stellarMainnet) GetHorizonURL() string {
	return self.horizonURL
}

func (self *stellarMainnet) GetDirectoryURL() string {
	return "https://api.stellar.expert/api/explorer/directory"
}

func (self *stellarMainnet) GetPriceFeedURL() string {
	return "https://api.satoshipay.io/mainnet/coinmarketcap/v1/cryptocurrency/quotes/latest"
}

func (self *stellarMainnet) GetBaseFee() int64 {
	return 100
}

func (self *stellarMainnet) GetBaseReserve() string {
	return "0.5"
}

func (self *stellarMainnet) GetPriceRefreshInterval() time.Duration {
	return 60 * time.Second
}
