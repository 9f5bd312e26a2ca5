package looter

import (
	"context"
	"os"
	"testing"
	"time"

	"primelooter/lib/platforms/primegaming"

	"github.com/stretchr/testify/require"
)

func withClaimCode(item primegaming.Item, code string) primegaming.Item {
	item.Offers[0].OfferSelfConnection.OrderInformation = []primegaming.OrderInformation{
		{ID: "order-1", ClaimCode: code, OrderState: "SUCCESS"},
	}
	return item
}

func TestClaimSkipsAlreadyClaimed(t *testing.T) {
	item := testItem("a", "Game A", "Item A", strptr("PublisherX"),
		primegaming.Eligibility{IsClaimed: true}, false)
	gw := &fakeGateway{}
	s := newTestService(t, gw, NewAllowlist([]string{AllowAll}))

	outcome, err := s.Claim(context.Background(), Candidate{Detail: item})
	require.NoError(t, err)
	require.Equal(t, OutcomeAlreadyClaimed, outcome)
	require.Empty(t, gw.placedIds)
	require.Equal(t, 0, gw.itemCalls)
}

func TestClaimLinkRequired(t *testing.T) {
	item := testItem("a", "Game A", "Item A", strptr("PublisherX"),
		primegaming.Eligibility{CanClaim: false, MissingRequiredAccountLink: true}, false)
	gw := &fakeGateway{}
	s := newTestService(t, gw, NewAllowlist([]string{AllowAll}))

	outcome, err := s.Claim(context.Background(), Candidate{
		Detail:    item,
		ClaimLink: "https://example.com/link-account",
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeLinkRequired, outcome)
	require.Empty(t, gw.placedIds)

	events, err := s.history.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, OutcomeLinkRequired, events[0].Outcome)
}

// A non-null place-orders error code is not fatal: the re-fetched
// detail payload decides how the claim went.
func TestClaimSubmitErrorCodeIgnored(t *testing.T) {
	item := testItem("a", "Game A", "Item A", strptr("PublisherX"),
		primegaming.Eligibility{CanClaim: true}, false)

	gw := &fakeGateway{
		placeOrders: func(ctx context.Context, offerId string) (primegaming.PlaceOrdersPayload, error) {
			return primegaming.PlaceOrdersPayload{
				Error: &primegaming.ErrorCode{Code: "offer-already-placed"},
			}, nil
		},
		item: func(ctx context.Context, itemId, redirectUrl string) (primegaming.Item, error) {
			return item, nil
		},
	}
	s := newTestService(t, gw, NewAllowlist([]string{AllowAll}))

	outcome, err := s.Claim(context.Background(), Candidate{Detail: item})
	require.NoError(t, err)
	require.Equal(t, OutcomeClaimed, outcome)
}

func TestPollExhausted(t *testing.T) {
	item := testItem("a", "Game A", "Item A", strptr("PublisherX"),
		primegaming.Eligibility{CanClaim: true}, true)

	pollFetches := 0
	gw := &fakeGateway{}
	gw.item = func(ctx context.Context, itemId, redirectUrl string) (primegaming.Item, error) {
		if gw.itemCalls > 1 {
			// everything after the post-claim verification is a poll
			pollFetches++
		}
		return item, nil
	}
	s := newTestService(t, gw, NewAllowlist([]string{AllowAll}))

	outcome, err := s.Claim(context.Background(), Candidate{Detail: item})
	require.NoError(t, err)
	require.Equal(t, OutcomePollExhausted, outcome)
	require.Equal(t, 5, pollFetches)

	records, err := s.codes.Records()
	require.NoError(t, err)
	require.Empty(t, records)

	events, err := s.history.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, OutcomePollExhausted, events[0].Outcome)
}

func TestPollCodeAppearsOnThirdAttempt(t *testing.T) {
	item := testItem("a", "Game A", "Item A", strptr("PublisherX"),
		primegaming.Eligibility{CanClaim: true}, true)

	pollFetches := 0
	gw := &fakeGateway{}
	gw.item = func(ctx context.Context, itemId, redirectUrl string) (primegaming.Item, error) {
		if gw.itemCalls == 1 {
			return item, nil
		}
		pollFetches++
		if pollFetches < 3 {
			return item, nil
		}
		return withClaimCode(item, "AAAA-BBBB"), nil
	}
	s := newTestService(t, gw, NewAllowlist([]string{AllowAll}))

	outcome, err := s.Claim(context.Background(), Candidate{Detail: item})
	require.NoError(t, err)
	require.Equal(t, OutcomeCodeSaved, outcome)
	require.Equal(t, 3, pollFetches)

	raw, err := os.ReadFile(s.codes.Path())
	require.NoError(t, err)
	require.Equal(t,
		"Game A - Item A Code: AAAA-BBBB\n\n"+
			"Redeem in the launcher.\n"+
			"========================\n========================\n",
		string(raw),
	)

	events, err := s.history.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, OutcomeCodeSaved, events[0].Outcome)
	require.Equal(t, "AAAA-BBBB", events[0].ClaimCode)
}

func TestPollCancellation(t *testing.T) {
	item := testItem("a", "Game A", "Item A", strptr("PublisherX"),
		primegaming.Eligibility{CanClaim: true}, true)

	ctx, cancel := context.WithCancel(context.Background())
	gw := &fakeGateway{}
	gw.item = func(_ context.Context, itemId, redirectUrl string) (primegaming.Item, error) {
		if gw.itemCalls > 1 {
			cancel()
		}
		return item, nil
	}
	s := newTestService(t, gw, NewAllowlist([]string{AllowAll}))
	s.pollDelay = time.Hour // cancellation must win over the sleep

	_, err := s.Claim(ctx, Candidate{Detail: item})
	require.ErrorIs(t, err, context.Canceled)

	// no partial record may exist after an aborted poll
	records, err := s.codes.Records()
	require.NoError(t, err)
	require.Empty(t, records)
}
