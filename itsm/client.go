package itsm

import (
	"context"
	"fmt"
	"time"

	"deskwise.io/infra/dwerr"
	"deskwise.io/infra/jsonclient"
	"deskwise.io/infra/pagination"
)

// headerSDKVersion is the header name for the Deskwise SDK version
const headerSDKVersion = "X-Deskwisesdk-Version"

const sdkVersion = "1.2.0"

// defaultRequestTimeout bounds each upstream call so a hung request can't
// stall a resolution chain indefinitely
const defaultRequestTimeout = 30 * time.Second

// Client is a client for the service desk API
type Client struct {
	client *jsonclient.Client
}

// NewClient creates a new service desk API client.
// Web API base URL, e.g. "https://example.deskwise.io".
// Deployments that authenticate with an API key should pass
// jsonclient.BasicAuth(apiKey, "X"); OIDC deployments pass
// jsonclient.ClientCredentialsTokenSource instead.
func NewClient(url string, opts ...jsonclient.Option) *Client {
	opts = append([]jsonclient.Option{
		jsonclient.RequestTimeout(defaultRequestTimeout),
		jsonclient.Header(headerSDKVersion, sdkVersion),
	}, opts...)
	return &Client{client: jsonclient.New(url, opts...)}
}

// ListAssetTypes returns one page of asset types
func (c *Client) ListAssetTypes(ctx context.Context, opts ...pagination.Option) (*AssetTypesResponse, error) {
	pager, err := pagination.ApplyOptions(opts...)
	if err != nil {
		return nil, dwerr.Wrap(err)
	}

	var resp AssetTypesResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/api/v2/asset_types?%s", pager.Query().Encode()), &resp); err != nil {
		return nil, dwerr.Wrap(err)
	}
	return &resp, nil
}

// ListLocations returns one page of locations
func (c *Client) ListLocations(ctx context.Context, opts ...pagination.Option) (*LocationsResponse, error) {
	pager, err := pagination.ApplyOptions(opts...)
	if err != nil {
		return nil, dwerr.Wrap(err)
	}

	var resp LocationsResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/api/v2/locations?%s", pager.Query().Encode()), &resp); err != nil {
		return nil, dwerr.Wrap(err)
	}
	return &resp, nil
}

// GetLocation returns a single location by ID
func (c *Client) GetLocation(ctx context.Context, id int64) (*LocationRecord, error) {
	var resp LocationResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/api/v2/locations/%d", id), &resp); err != nil {
		return nil, dwerr.Wrap(err)
	}
	return &resp.Location, nil
}

// ListAssets returns one page of assets matching the given filter expression
// (e.g. "name:'server'"). include requests extended per-asset fields
// ("type_fields") and may be empty.
func (c *Client) ListAssets(ctx context.Context, filter, include string, opts ...pagination.Option) (*AssetsResponse, error) {
	pager, err := pagination.ApplyOptions(opts...)
	if err != nil {
		return nil, dwerr.Wrap(err)
	}

	query := pager.Query()
	if filter != "" {
		query.Add("filter", fmt.Sprintf("%q", filter))
	}
	if include != "" {
		query.Add("include", include)
	}

	var resp AssetsResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/api/v2/assets?%s", query.Encode()), &resp); err != nil {
		return nil, dwerr.Wrap(err)
	}
	return &resp, nil
}

// GetAsset returns a single asset by display ID, including its type fields
func (c *Client) GetAsset(ctx context.Context, displayID int64) (*Asset, error) {
	var resp AssetResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/api/v2/assets/%d?include=type_fields", displayID), &resp); err != nil {
		return nil, dwerr.Wrap(err)
	}
	return &resp.Asset, nil
}

// ListAgents returns one page of agents
func (c *Client) ListAgents(ctx context.Context, opts ...pagination.Option) (*AgentsResponse, error) {
	pager, err := pagination.ApplyOptions(opts...)
	if err != nil {
		return nil, dwerr.Wrap(err)
	}

	var resp AgentsResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/api/v2/agents?%s", pager.Query().Encode()), &resp); err != nil {
		return nil, dwerr.Wrap(err)
	}
	return &resp, nil
}

// GetAgent returns a single agent by ID
func (c *Client) GetAgent(ctx context.Context, id int64) (*AgentRecord, error) {
	var resp AgentResponse
	if err := c.client.Get(ctx, fmt.Sprintf("/api/v2/agents/%d", id), &resp); err != nil {
		return nil, dwerr.Wrap(err)
	}
	return &resp.Agent, nil
}
