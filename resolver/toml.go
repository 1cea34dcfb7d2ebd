package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/BurntSushi/toml"

	"github.com/photon-wallet/photon/common"
)

// stellar.toml bodies can be served by anyone; cap what we read.
const maxDescriptorSize = 100 * 1024

// fetchDescriptor downloads and parses https://<domain>/.well-known/stellar.toml.
func (r *Resolver) fetchDescriptor(ctx context.Context, domain string) (federationDescriptor, error) {
	descURL := fmt.Sprintf("%s://%s/.well-known/stellar.toml", r.scheme, domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, descURL, nil)
	if err != nil {
		return federationDescriptor{}, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return federationDescriptor{}, fmt.Errorf("descriptor of %s unreachable: %w", domain, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return federationDescriptor{}, &common.BadResponseError{Status: resp.StatusCode, Server: domain}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptorSize))
	if err != nil {
		return federationDescriptor{}, err
	}

	desc := federationDescriptor{}
	if err = toml.Unmarshal(body, &desc); err != nil {
		return federationDescriptor{}, fmt.Errorf("stellar.toml of %s is malformed: %w", domain, err)
	}
	if desc.FederationServer == "" {
		return federationDescriptor{}, fmt.Errorf("stellar.toml of %s declares no FEDERATION_SERVER", domain)
	}
	return desc, nil
}
