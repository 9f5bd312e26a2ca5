package looter

import (
	"context"
	"testing"

	"primelooter/lib/platforms/primegaming"

	"github.com/stretchr/testify/require"
)

func TestAllowlist(t *testing.T) {
	a := NewAllowlist([]string{"PublisherX", "  PublisherY  ", ""})
	require.True(t, a.Allows("PublisherX"))
	require.True(t, a.Allows("PublisherY"))
	require.False(t, a.Allows("PublisherZ"))

	all := NewAllowlist([]string{"all"})
	require.True(t, all.Allows("anyone"))

	mixed := NewAllowlist([]string{"PublisherX", "all"})
	require.True(t, mixed.Allows("PublisherZ"))
}

func detailServing(items ...primegaming.Item) func(ctx context.Context, itemId, redirectUrl string) (primegaming.Item, error) {
	byId := map[string]primegaming.Item{}
	for _, item := range items {
		byId[item.Assets.ID] = item
	}
	return func(ctx context.Context, itemId, redirectUrl string) (primegaming.Item, error) {
		detail, ok := byId[itemId]
		if !ok {
			return primegaming.Item{}, primegaming.MissingPayload("itemV2")
		}
		return detail, nil
	}
}

func TestFilterAllKeepsOrder(t *testing.T) {
	items := []primegaming.Item{
		testItem("a", "Game A", "Item A", strptr("PublisherX"), primegaming.Eligibility{}, false),
		testItem("b", "Game B", "Item B", strptr("PublisherY"), primegaming.Eligibility{}, false),
		testItem("c", "Game C", "Item C", strptr("PublisherZ"), primegaming.Eligibility{}, false),
	}
	gw := &fakeGateway{item: detailServing(items...)}
	s := newTestService(t, gw, NewAllowlist([]string{AllowAll}))

	out := s.Filter(context.Background(), items)
	require.Len(t, out, 3)
	require.Equal(t, "a", out[0].Detail.Assets.ID)
	require.Equal(t, "b", out[1].Detail.Assets.ID)
	require.Equal(t, "c", out[2].Detail.Assets.ID)
}

func TestFilterByPublisher(t *testing.T) {
	items := []primegaming.Item{
		testItem("a", "Game A", "Item A", strptr("PublisherX"), primegaming.Eligibility{}, false),
		testItem("b", "Game B", "Item B", strptr("PublisherY"), primegaming.Eligibility{}, false),
		testItem("c", "Game C", "Item C", strptr("PublisherX"), primegaming.Eligibility{}, false),
	}
	gw := &fakeGateway{item: detailServing(items...)}
	s := newTestService(t, gw, NewAllowlist([]string{"PublisherX"}))

	out := s.Filter(context.Background(), items)
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].Detail.Assets.ID)
	require.Equal(t, "c", out[1].Detail.Assets.ID)
}

// An item whose detail payload lacks a publisher is never claimed,
// even under the "all" allowlist.
func TestFilterDropsMissingPublisher(t *testing.T) {
	items := []primegaming.Item{
		testItem("a", "Game A", "Item A", nil, primegaming.Eligibility{}, false),
		testItem("b", "Game B", "Item B", strptr("PublisherY"), primegaming.Eligibility{}, false),
	}
	gw := &fakeGateway{item: detailServing(items...)}
	s := newTestService(t, gw, NewAllowlist([]string{AllowAll}))

	out := s.Filter(context.Background(), items)
	require.Len(t, out, 1)
	require.Equal(t, "b", out[0].Detail.Assets.ID)
}

func TestFilterSkipsFailedDetailFetch(t *testing.T) {
	ok := testItem("b", "Game B", "Item B", strptr("PublisherY"), primegaming.Eligibility{}, false)
	items := []primegaming.Item{
		testItem("a", "Game A", "Item A", strptr("PublisherX"), primegaming.Eligibility{}, false),
		ok,
	}
	// only "b" resolves, "a"'s fetch errors
	gw := &fakeGateway{item: detailServing(ok)}
	s := newTestService(t, gw, NewAllowlist([]string{AllowAll}))

	out := s.Filter(context.Background(), items)
	require.Len(t, out, 1)
	require.Equal(t, "b", out[0].Detail.Assets.ID)
}
