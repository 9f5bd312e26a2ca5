package looter

import (
	"context"
	"log/slog"

	"primelooter/lib/platforms/primegaming"
)

// Candidate is an unclaimed item that passed the publisher filter,
// carrying the full detail payload so the claim engine can read
// eligibility without another fetch.
type Candidate struct {
	Detail    primegaming.Item
	ClaimLink string
}

// Filter restricts unclaimed items to allow-listed publishers. The
// publisher only exists on the detail payload, so this fetches detail
// per item. Relative input order is preserved. Items whose detail
// lacks a publisher are dropped, and a failed detail fetch drops just
// that item so the rest of the run is unaffected.
func (s *Service) Filter(ctx context.Context, items []primegaming.Item) []Candidate {
	ctx, span := tracer.Start(ctx, "Filter")
	defer span.End()

	var out []Candidate
	for _, item := range items {
		if ctx.Err() != nil {
			return out
		}

		detail, err := s.gw.Item(ctx, item.Assets.ID, item.Assets.ExternalClaimLink)
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch item detail",
				"game", item.GameTitle(),
				"item", item.Assets.Title,
				"err", err,
			)
			continue
		}

		publisher, ok := detail.Publisher()
		if !ok {
			slog.DebugContext(ctx, "item has no publisher, skipping",
				"game", detail.GameTitle(),
				"item", detail.Assets.Title,
			)
			continue
		}
		if !s.allowlist.Allows(publisher) {
			slog.DebugContext(ctx, "publisher not allow-listed, skipping",
				"game", detail.GameTitle(),
				"publisher", publisher,
			)
			continue
		}

		out = append(out, Candidate{
			Detail:    detail,
			ClaimLink: item.Assets.ExternalClaimLink,
		})
	}

	return out
}
