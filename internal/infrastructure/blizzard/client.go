package blizzard

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nefeygt/wowscraper/internal/domain"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
)

// Client talks to the battle.net game data API. Realm and auction endpoints
// live in the dynamic namespace, item endpoints in the static one; both are
// derived from the region.
type Client struct {
	baseURL    string
	region     string
	locale     string
	httpClient *http.Client
}

func NewClient(baseURL, region, locale string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		region:     region,
		locale:     locale,
		httpClient: httpClient,
	}
}

// ConnectedRealmIDs lists every connected realm id in the region.
func (c *Client) ConnectedRealmIDs(ctx context.Context) ([]int64, error) {
	var index connectedRealmIndexResponse
	if err := c.get(ctx, "/data/wow/connected-realm/index", c.dynamicNamespace(), &index); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(index.ConnectedRealms))
	for _, realmLink := range index.ConnectedRealms {
		id, err := connectedRealmIDFromHref(realmLink.Href)
		if err != nil {
			return nil, domain.WrapError(err, errcodes.UpstreamUnavailable, "malformed connected realm href")
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// ConnectedRealm fetches one connected realm with its member realms.
func (c *Client) ConnectedRealm(ctx context.Context, id int64) (ConnectedRealm, error) {
	var realm ConnectedRealm

	path := fmt.Sprintf("/data/wow/connected-realm/%d", id)
	if err := c.get(ctx, path, c.dynamicNamespace(), &realm); err != nil {
		return ConnectedRealm{}, err
	}

	return realm, nil
}

// Auctions returns the current auction snapshot of one connected realm.
func (c *Client) Auctions(ctx context.Context, connectedRealmID int64) ([]Auction, error) {
	var auctions auctionsResponse

	path := fmt.Sprintf("/data/wow/connected-realm/%d/auctions", connectedRealmID)
	if err := c.get(ctx, path, c.dynamicNamespace(), &auctions); err != nil {
		return nil, err
	}

	return auctions.Auctions, nil
}

// Item fetches static item data, mainly the display name.
func (c *Client) Item(ctx context.Context, id int64) (Item, error) {
	var item Item

	path := fmt.Sprintf("/data/wow/item/%d", id)
	if err := c.get(ctx, path, c.staticNamespace(), &item); err != nil {
		return Item{}, err
	}

	return item, nil
}

// ItemIconURL resolves the icon asset of an item, empty when the item has no
// icon media.
func (c *Client) ItemIconURL(ctx context.Context, id int64) (string, error) {
	var media itemMediaResponse

	path := fmt.Sprintf("/data/wow/media/item/%d", id)
	if err := c.get(ctx, path, c.staticNamespace(), &media); err != nil {
		return "", err
	}

	for _, asset := range media.Assets {
		if asset.Key == "icon" {
			return asset.Value, nil
		}
	}

	return "", nil
}

func (c *Client) dynamicNamespace() string {
	return "dynamic-" + c.region
}

func (c *Client) staticNamespace() string {
	return "static-" + c.region
}

func (c *Client) get(ctx context.Context, path, namespace string, dest any) error {
	query := url.Values{
		"namespace": {namespace},
		"locale":    {c.locale},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(err, errcodes.UpstreamUnavailable, "game data request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.NewError(errcodes.NotFound, fmt.Sprintf("resource %s not found", path))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.NewError(errcodes.AuthFailed,
			fmt.Sprintf("game data API rejected credentials with %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return domain.NewError(errcodes.UpstreamUnavailable,
			fmt.Sprintf("game data API answered %d for %s", resp.StatusCode, path))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return domain.WrapError(err, errcodes.UpstreamUnavailable, "failed to decode game data response")
	}

	return nil
}

// connectedRealmIDFromHref extracts the id from an index href of the form
// https://host/data/wow/connected-realm/1080?namespace=dynamic-eu.
func connectedRealmIDFromHref(href string) (int64, error) {
	trimmed := href
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.TrimRight(trimmed, "/")

	i := strings.LastIndexByte(trimmed, '/')
	if i < 0 || i == len(trimmed)-1 {
		return 0, fmt.Errorf("no id segment in href %q", href)
	}

	id, err := strconv.ParseInt(trimmed[i+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id segment of %q: %w", href, err)
	}

	return id, nil
}
