package networks

import (
	"fmt"
	"sync"
)

// NetworkString is bound to the root --network flag before any command runs.
var NetworkString string

var (
	cachedNetwork Network
	mu            sync.Mutex
)

var supportedNetworks = []Network{
	StellarMainnet,
	StellarTestnet,
}

var ErrNetworkNotFound = fmt.Errorf("network not found")

func CurrentNetwork() Network {
	if cachedNetwork != nil {
		return cachedNetwork
	}
	SetNetwork(NetworkString)
	return cachedNetwork
}

func SetNetwork(networkStr string) {
	mu.Lock()
	defer mu.Unlock()

	var err error
	cachedNetwork, err = GetNetwork(networkStr)
	if err != nil {
		cachedNetwork = StellarMainnet
	}
}

func GetNetwork(name string) (Network, error) {
	for _, n := range supportedNetworks {
		if n.GetName() == name {
			return n, nil
		}
	}
	return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
}

func GetSupportedNetworks() []Network {
	res := []Network{}
	res = append(res, supportedNetworks...)
	return res
}

func GetSupportedNetworkNames() []string {
	res := []string{}
	for _, n := range supportedNetworks {
		res = append(res, n.GetName())
	}
	return res
}
