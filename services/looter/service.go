package looter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"primelooter/lib/platforms/primegaming"
	"primelooter/services/looter/codestore"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/looter")

// Gateway is the slice of the portal client the looter needs. The
// production implementation is *primegaming.Client; tests substitute
// a fake so the claim state machine is exercised without a network.
type Gateway interface {
	CurrentUser(ctx context.Context) (primegaming.CurrentUser, error)
	Offers(ctx context.Context, pageSize int) (primegaming.OfferCollections, error)
	Item(ctx context.Context, itemId, redirectUrl string) (primegaming.Item, error)
	PlaceOrders(ctx context.Context, offerId string) (primegaming.PlaceOrdersPayload, error)
}

type Service struct {
	gw        Gateway
	codes     *codestore.Store
	history   *History
	allowlist Allowlist

	pageSize     int
	pollAttempts int
	pollDelay    time.Duration
}

type Options struct {
	Gateway   Gateway
	Codes     *codestore.Store
	Allowlist Allowlist
	// History may be nil; outcome recording is then skipped.
	History *History
}

func NewService(opts Options) *Service {
	return &Service{
		gw:           opts.Gateway,
		codes:        opts.Codes,
		history:      opts.History,
		allowlist:    opts.Allowlist,
		pageSize:     999,
		pollAttempts: 5,
		pollDelay:    time.Second * 3,
	}
}

// Run performs one full looting pass: authenticate, list, classify,
// filter by publisher, claim. Per-item failures are logged and the
// pass continues; only an auth failure or a failed initial list fetch
// aborts it.
func (s *Service) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	if _, err := s.Authenticate(ctx); err != nil {
		span.SetStatus(codes.Error, "authentication failed")
		return err
	}

	offers, err := s.gw.Offers(ctx, s.pageSize)
	if err != nil {
		span.SetStatus(codes.Error, "offer list fetch failed")
		return fmt.Errorf("fetching offer list: %w", err)
	}

	_, loot := Classify(ctx, CategoryLoot, offers.InGameLoot.Items)
	_, games := Classify(ctx, CategoryGame, offers.Games.Items)

	unclaimed := make([]primegaming.Item, 0, len(loot)+len(games))
	unclaimed = append(unclaimed, loot...)
	unclaimed = append(unclaimed, games...)

	for _, cand := range s.Filter(ctx, unclaimed) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := s.Claim(ctx, cand)
		if err != nil {
			slog.ErrorContext(ctx, "failed to claim item",
				"game", cand.Detail.GameTitle(),
				"item", cand.Detail.Assets.Title,
				"err", err,
			)
		}
	}

	return nil
}

func (s *Service) record(ctx context.Context, detail primegaming.Item, outcome Outcome, claimCode string) {
	if s.history == nil {
		return
	}
	offerId := ""
	if len(detail.Offers) > 0 {
		offerId = detail.Offers[0].ID
	}
	err := s.history.Record(ctx, ClaimEvent{
		GameTitle: detail.GameTitle(),
		ItemTitle: detail.Assets.Title,
		OfferId:   offerId,
		Outcome:   outcome,
		ClaimCode: claimCode,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record claim event", "err", err)
	}
}
