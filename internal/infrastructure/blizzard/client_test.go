package blizzard_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nefeygt/wowscraper/internal/domain"
	"github.com/nefeygt/wowscraper/internal/infrastructure/blizzard"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
)

func TestClientConnectedRealms(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("dynamic-eu", r.URL.Query().Get("namespace"))
		rq.Equal("en_GB", r.URL.Query().Get("locale"))

		switch r.URL.Path {
		case "/data/wow/connected-realm/index":
			fmt.Fprintf(w, `{"connected_realms":[
				{"href":"%[1]s/data/wow/connected-realm/1080?namespace=dynamic-eu"},
				{"href":"%[1]s/data/wow/connected-realm/509?namespace=dynamic-eu"}
			]}`, "https://eu.api.blizzard.com")
		case "/data/wow/connected-realm/1080":
			_, _ = w.Write([]byte(`{"id":1080,"realms":[
				{"id":1080,"name":"Khadgar","slug":"khadgar"},
				{"id":1081,"name":"Bloodhoof","slug":"bloodhoof"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := blizzard.NewClient(srv.URL, "eu", "en_GB", srv.Client())

	ids, err := client.ConnectedRealmIDs(ctx)
	rq.NoError(err)
	rq.Equal([]int64{1080, 509}, ids)

	realm, err := client.ConnectedRealm(ctx, 1080)
	rq.NoError(err)
	rq.Equal(int64(1080), realm.ID)
	rq.Len(realm.Realms, 2)
	rq.Equal("Khadgar", realm.Realms[0].Name)
}

func TestClientAuctions(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("/data/wow/connected-realm/1080/auctions", r.URL.Path)

		_, _ = w.Write([]byte(`{"auctions":[
			{"id":1,"item":{"id":19019},"buyout":1250000,"quantity":1},
			{"id":2,"item":{"id":19019},"bid":900000,"quantity":1},
			{"id":3,"item":{"id":2589},"unit_price":75,"quantity":200}
		]}`))
	}))
	defer srv.Close()

	client := blizzard.NewClient(srv.URL, "eu", "en_GB", srv.Client())

	auctions, err := client.Auctions(ctx, 1080)
	rq.NoError(err)
	rq.Len(auctions, 3)

	rq.Equal(int64(1250000), auctions[0].BuyoutPrice())
	rq.Zero(auctions[1].BuyoutPrice(), "bid-only listing has no buyout price")
	rq.Equal(int64(75), auctions[2].BuyoutPrice(), "commodity listings price per unit")
}

func TestClientItem(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("static-eu", r.URL.Query().Get("namespace"))

		switch r.URL.Path {
		case "/data/wow/item/19019":
			_, _ = w.Write([]byte(`{"id":19019,"name":"Thunderfury","quality":{"type":"LEGENDARY","name":"Legendary"},"level":80}`))
		case "/data/wow/media/item/19019":
			_, _ = w.Write([]byte(`{"assets":[{"key":"icon","value":"https://render.worldofwarcraft.com/icons/56/inv_sword_39.jpg"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := blizzard.NewClient(srv.URL, "eu", "en_GB", srv.Client())

	item, err := client.Item(ctx, 19019)
	rq.NoError(err)
	rq.Equal("Thunderfury", item.Name)
	rq.Equal("LEGENDARY", item.Quality.Type)

	icon, err := client.ItemIconURL(ctx, 19019)
	rq.NoError(err)
	rq.Contains(icon, "inv_sword_39")

	_, err = client.Item(ctx, 99999999)
	rq.Error(err)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.NotFound, code)
}

func TestClientUpstreamErrors(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := blizzard.NewClient(srv.URL, "eu", "en_GB", srv.Client())

	_, err := client.Auctions(ctx, 1080)
	rq.Error(err)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.UpstreamUnavailable, code)
}
