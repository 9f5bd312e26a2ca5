package primegaming

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"primelooter/lib/telemetry"

	"github.com/stretchr/testify/require"
)

type graphqlRequest struct {
	OperationName string          `json:"operationName"`
	Variables     json.RawMessage `json:"variables"`
}

type fakePortal struct {
	csrf      string
	responses map[string]string
	seen      []graphqlRequest
	lastCsrf  string
	lastReq   *http.Request
}

func (p *fakePortal) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/home", func(w http.ResponseWriter, r *http.Request) {
		p.lastReq = r
		fmt.Fprintf(w, "<html><body><input name='csrf-key' value='%s'/></body></html>", p.csrf)
	})
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		p.lastReq = r
		p.lastCsrf = r.Header.Get("csrf-token")

		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p.seen = append(p.seen, req)

		body, ok := p.responses[req.OperationName]
		if !ok {
			http.Error(w, "unknown operation", http.StatusBadRequest)
			return
		}
		w.Header().Set("content-type", "application/json")
		fmt.Fprint(w, body)
	})
	return mux
}

func setup(t *testing.T, portal *fakePortal) *Client {
	cleanup := telemetry.SetupForTesting(t, "test:platforms/primegaming")
	t.Cleanup(cleanup)

	server := httptest.NewServer(portal.handler())
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	return client
}

func TestLoginCookies(t *testing.T) {
	portal := &fakePortal{
		csrf: "tok-123",
		responses: map[string]string{
			"Entry_Points_User": `{"data":{"currentUser":{"isSignedIn":true,"isAmazonPrime":true,"isTwitchPrime":true,"firstName":"Ada"}}}`,
		},
	}
	client := setup(t, portal)
	ctx := context.Background()

	err := client.LoginCookies(ctx, []*http.Cookie{
		{Name: "session-id", Value: "abc"},
	})
	require.NoError(t, err)

	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	require.True(t, user.IsSignedIn)
	require.Equal(t, "Ada", user.FirstName)

	require.Equal(t, "tok-123", portal.lastCsrf)
	cookie, err := portal.lastReq.Cookie("session-id")
	require.NoError(t, err)
	require.Equal(t, "abc", cookie.Value)
}

func TestLoginCookiesMissingCsrf(t *testing.T) {
	portal := &fakePortal{csrf: ""}
	client := setup(t, portal)

	err := client.LoginCookies(context.Background(), nil)
	require.ErrorIs(t, err, MissingCsrfToken)
}

func TestOffers(t *testing.T) {
	portal := &fakePortal{
		csrf: "tok",
		responses: map[string]string{
			"OffersContext_Offers_And_Items": `{"data":{
				"inGameLoot":{"items":[{"id":"loot1","grantsCode":true,"assets":{"id":"a1","title":"Loot Pack"},"game":{"assets":{"title":"Game A"}},"offers":[{"id":"o1","offerSelfConnection":{"eligibility":{"isClaimed":false}}}]}]},
				"expiring":{"items":[]},
				"popular":{"items":[]},
				"games":{"items":[{"id":"game1","assets":{"id":"a2","title":"Free Game"},"offers":[{"id":"o2","offerSelfConnection":{"eligibility":{"isClaimed":true}}}]}]}
			}}`,
		},
	}
	client := setup(t, portal)

	offers, err := client.Offers(context.Background(), 999)
	require.NoError(t, err)
	require.Len(t, offers.InGameLoot.Items, 1)
	require.Len(t, offers.Games.Items, 1)
	require.Equal(t, "Game A", offers.InGameLoot.Items[0].GameTitle())
	require.False(t, offers.InGameLoot.Items[0].Eligibility().IsClaimed)
	require.True(t, offers.Games.Items[0].Eligibility().IsClaimed)

	var vars struct {
		PageSize int `json:"pageSize"`
	}
	require.NoError(t, json.Unmarshal(portal.seen[0].Variables, &vars))
	require.Equal(t, 999, vars.PageSize)
}

func TestItemPublisherPresence(t *testing.T) {
	portal := &fakePortal{
		csrf: "tok",
		responses: map[string]string{
			"ItemV2Context": `{"data":{"itemV2":{"item":{
				"id":"i1",
				"grantsCode":true,
				"assets":{"id":"a1","title":"Skin","claimInstructions":"Go to\nsettings","externalClaimLink":"https://example.com/claim"},
				"game":{"assets":{"title":"Game A","publisher":"PublisherX"}},
				"offers":[{"id":"o1","offerSelfConnection":{"eligibility":{"isClaimed":false,"canClaim":true},"orderInformation":[{"claimCode":"XYZ"}]}}]
			},"error":null}}}`,
		},
	}
	client := setup(t, portal)

	item, err := client.Item(context.Background(), "a1", "https://example.com/claim")
	require.NoError(t, err)

	publisher, ok := item.Publisher()
	require.True(t, ok)
	require.Equal(t, "PublisherX", publisher)
	require.Equal(t, "XYZ", item.ClaimCode())

	// absent publisher is distinguishable from an empty one
	portal.responses["ItemV2Context"] = `{"data":{"itemV2":{"item":{
		"id":"i2","assets":{"id":"a2","title":"Other"},
		"game":{"assets":{"title":"Game B"}},
		"offers":[]
	},"error":null}}}`
	item, err = client.Item(context.Background(), "a2", "")
	require.NoError(t, err)
	_, ok = item.Publisher()
	require.False(t, ok)
	require.Equal(t, "", item.ClaimCode())
}

func TestItemMissingPayload(t *testing.T) {
	portal := &fakePortal{
		csrf: "tok",
		responses: map[string]string{
			"ItemV2Context": `{"data":{"itemV2":null}}`,
		},
	}
	client := setup(t, portal)

	_, err := client.Item(context.Background(), "a1", "")
	require.Error(t, err)
	var missing MissingPayloadError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "itemV2", missing.Key)
}

func TestPlaceOrders(t *testing.T) {
	portal := &fakePortal{
		csrf: "tok",
		responses: map[string]string{
			"placeOrdersDetailPage": `{"data":{"placeOrders":{"error":{"code":"offer-already-placed"},"orderInformation":[]}}}`,
		},
	}
	client := setup(t, portal)

	payload, err := client.PlaceOrders(context.Background(), "offer-1")
	require.NoError(t, err)
	require.NotNil(t, payload.Error)
	require.Equal(t, "offer-already-placed", payload.Error.Code)

	var vars struct {
		Input struct {
			OfferIds           string `json:"offerIds"`
			AttributionChannel string `json:"attributionChannel"`
		} `json:"input"`
	}
	require.NoError(t, json.Unmarshal(portal.seen[0].Variables, &vars))
	require.Equal(t, "offer-1", vars.Input.OfferIds)
	require.Contains(t, vars.Input.AttributionChannel, "ItemDetailRootPage:offer-1")
}

func TestNon2xxRaises(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:platforms/primegaming")
	t.Cleanup(cleanup)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.CurrentUser(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Entry_Points_User")
}

func TestTransportReacquiredAfterClose(t *testing.T) {
	portal := &fakePortal{
		csrf: "tok-close",
		responses: map[string]string{
			"Entry_Points_User": `{"data":{"currentUser":{"isSignedIn":true,"isAmazonPrime":true,"isTwitchPrime":true,"firstName":"Ada"}}}`,
		},
	}
	client := setup(t, portal)
	ctx := context.Background()

	err := client.LoginCookies(ctx, []*http.Cookie{{Name: "session-id", Value: "abc"}})
	require.NoError(t, err)

	client.Close()

	// the rebuilt transport must carry the same cookies and csrf token
	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "Ada", user.FirstName)
	require.Equal(t, "tok-close", portal.lastCsrf)
	cookie, err := portal.lastReq.Cookie("session-id")
	require.NoError(t, err)
	require.Equal(t, "abc", cookie.Value)
}
