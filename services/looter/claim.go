package looter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"primelooter/services/looter/codestore"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Outcome is the terminal state of one item's trip through the claim
// engine.
type Outcome string

const (
	OutcomeAlreadyClaimed Outcome = "already_claimed"
	OutcomeLinkRequired   Outcome = "link_required"
	OutcomeClaimed        Outcome = "claimed"
	OutcomeCodeSaved      Outcome = "code_saved"
	OutcomePollExhausted  Outcome = "poll_exhausted"
)

// Claim walks one candidate through the claim state machine:
//
//	check -> gate -> submit -> verify -> (poll -> persist)
//
// An already-claimed item is a no-op; a missing account link is an
// expected terminal state, not an error. Poll exhaustion is reported
// through the returned Outcome, also not an error: the next run picks
// the code up since the offer is claimed by then.
func (s *Service) Claim(ctx context.Context, cand Candidate) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "Claim")
	defer span.End()

	detail := cand.Detail
	span.SetAttributes(
		attribute.String("game", detail.GameTitle()),
		attribute.String("item", detail.Assets.Title),
	)

	eligibility := detail.Eligibility()
	if eligibility.IsClaimed {
		return OutcomeAlreadyClaimed, nil
	}

	if !eligibility.CanClaim && eligibility.MissingRequiredAccountLink {
		slog.InfoContext(ctx, "account link required, claim it yourself",
			"game", detail.GameTitle(),
			"item", detail.Assets.Title,
			"link", cand.ClaimLink,
		)
		s.record(ctx, detail, OutcomeLinkRequired, "")
		return OutcomeLinkRequired, nil
	}

	if len(detail.Offers) == 0 {
		return "", fmt.Errorf("item %q has no offers", detail.Assets.Title)
	}

	slog.InfoContext(ctx, "collecting",
		"game", detail.GameTitle(),
		"item", detail.Assets.Title,
	)

	payload, err := s.gw.PlaceOrders(ctx, detail.Offers[0].ID)
	if err != nil {
		span.SetStatus(codes.Error, "place orders failed")
		return "", err
	}
	if payload.Error != nil {
		// not authoritative, the detail re-fetch below decides
		// whether the claim actually went through
		slog.WarnContext(ctx, "place orders returned an error code",
			"game", detail.GameTitle(),
			"item", detail.Assets.Title,
			"code", payload.Error.Code,
		)
	}

	verified, err := s.gw.Item(ctx, detail.Assets.ID, cand.ClaimLink)
	if err != nil {
		span.SetStatus(codes.Error, "post-claim verification failed")
		return "", err
	}

	if !verified.GrantsCode {
		s.record(ctx, verified, OutcomeClaimed, "")
		return OutcomeClaimed, nil
	}

	return s.pollForCode(ctx, Candidate{Detail: verified, ClaimLink: cand.ClaimLink})
}

// pollForCode re-fetches the detail payload until the order carries a
// claim code, persisting it on first sight. Bounded attempts: codes
// usually show up within a couple of polls and anything slower is
// left for the next run.
func (s *Service) pollForCode(ctx context.Context, cand Candidate) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "pollForCode")
	defer span.End()

	detail := cand.Detail
	for attempt := 1; attempt <= s.pollAttempts; attempt++ {
		fresh, err := s.gw.Item(ctx, detail.Assets.ID, cand.ClaimLink)
		if err != nil {
			span.SetStatus(codes.Error, "poll fetch failed")
			return "", err
		}

		if code := fresh.ClaimCode(); code != "" {
			rec := codestore.Record{
				GameTitle:    fresh.GameTitle(),
				ItemTitle:    fresh.Assets.Title,
				ClaimCode:    code,
				Instructions: fresh.Assets.ClaimInstructions,
			}
			slog.InfoContext(ctx, "saving code",
				"game", rec.GameTitle,
				"item", rec.ItemTitle,
				"code", code,
			)
			if err := s.codes.Append(rec); err != nil {
				span.SetStatus(codes.Error, "failed to persist code")
				return "", fmt.Errorf("persisting claim code: %w", err)
			}
			s.record(ctx, fresh, OutcomeCodeSaved, code)
			return OutcomeCodeSaved, nil
		}

		if attempt == s.pollAttempts {
			break
		}
		select {
		case <-time.After(s.pollDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	slog.ErrorContext(ctx, "unable to retrieve the code",
		"game", detail.GameTitle(),
		"item", detail.Assets.Title,
		"attempts", s.pollAttempts,
	)
	s.record(ctx, detail, OutcomePollExhausted, "")
	return OutcomePollExhausted, nil
}
