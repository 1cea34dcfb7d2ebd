package networks

import (
	"errors"
	"testing"
)

func TestGetNetwork(t *testing.T) {
	for _, name := range GetSupportedNetworkNames() {
		n, err := GetNetwork(name)
		if err != nil {
			t.Errorf("GetNetwork(%q) failed: %s", name, err)
			continue
		}
		if n.GetName() != name {
			t.Errorf("GetNetwork(%q).GetName() = %q", name, n.GetName())
		}
	}

	_, err := GetNetwork("no-such-network")
	if !errors.Is(err, ErrNetworkNotFound) {
		t.Errorf("error = %v, want ErrNetworkNotFound", err)
	}
}

func TestSetNetworkFallsBackToMainnet(t *testing.T) {
	SetNetwork("no-such-network")
	if got := CurrentNetwork().GetName(); got != "mainnet" {
		t.Errorf("current network = %q, want mainnet fallback", got)
	}

	SetNetwork("testnet")
	if got := CurrentNetwork().GetName(); got != "testnet" {
		t.Errorf("current network = %q, want testnet", got)
	}
	SetNetwork("mainnet")
}

func TestNetworkParameters(t *testing.T) {
	if StellarMainnet.GetPassphrase() == StellarTestnet.GetPassphrase() {
		t.Errorf("mainnet and testnet must use distinct passphrases")
	}
	if StellarMainnet.GetPriceFeedURL() == StellarTestnet.GetPriceFeedURL() {
		t.Errorf("mainnet and testnet must use distinct price feed endpoints")
	}
	if StellarTestnet.GetDirectoryURL() != "" {
		t.Errorf("testnet has no account directory")
	}
	if StellarMainnet.GetBaseFee() != 100 || StellarMainnet.GetBaseReserve() != "0.5" {
		t.Errorf("unexpected mainnet fee parameters")
	}
}
