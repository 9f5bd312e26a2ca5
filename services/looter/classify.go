package looter

import (
	"context"
	"log/slog"

	"primelooter/lib/platforms/primegaming"
)

type Category string

const (
	CategoryLoot Category = "Loot"
	CategoryGame Category = "Game"
)

type CategorySummary struct {
	Category  Category
	Total     int
	Claimed   int
	Unclaimed int
}

// Classify partitions one collection into claimed and unclaimed
// items. Unclaimed items come back in input order. Pure computation
// over the already-fetched list; the only side effect is logging.
func Classify(ctx context.Context, category Category, items []primegaming.Item) (CategorySummary, []primegaming.Item) {
	summary := CategorySummary{Category: category, Total: len(items)}
	var unclaimed []primegaming.Item

	for _, item := range items {
		if item.Eligibility().IsClaimed {
			summary.Claimed++
			slog.InfoContext(ctx, "already collected",
				"game", item.GameTitle(),
				"item", item.Assets.Title,
				"category", string(category),
			)
			continue
		}
		summary.Unclaimed++
		unclaimed = append(unclaimed, item)
		slog.InfoContext(ctx, "trying to claim",
			"game", item.GameTitle(),
			"item", item.Assets.Title,
			"category", string(category),
		)
	}

	slog.InfoContext(ctx, "collection summary",
		"category", string(category),
		"total", summary.Total,
		"claimed", summary.Claimed,
		"unclaimed", summary.Unclaimed,
	)

	return summary, unclaimed
}
