package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"primelooter/lib/cookiefile"
	"primelooter/lib/platforms/primegaming"
	"primelooter/lib/telemetry"
	"primelooter/services/looter"
	"primelooter/services/looter/codestore"

	"github.com/spf13/cobra"
)

var (
	lootCookies    *string
	lootPublishers *string
	lootCodesFile  *string
	lootHistoryDb  *string
	lootLoop       *bool
	lootDebug      *bool
)

// exit codes: 1 for transient failures, 2 when the cookies are
// unusable and a retry cannot help
const exitTransient = 1
const exitAuth = 2

const loopCooldown = time.Hour * 24
const errorCooldown = time.Minute

func init() {
	lootCookies = lootCmd.Flags().StringP("cookies", "c", "cookies.txt", "Path to the browser-exported cookies.txt file.")
	lootPublishers = lootCmd.Flags().StringP("publishers", "p", "publishers.txt", "Path to the publisher allow-list file (or a file containing just \"all\").")
	lootCodesFile = lootCmd.Flags().String("codes-file", "game_codes.txt", "File claim codes are appended to.")
	lootHistoryDb = lootCmd.Flags().String("history-db", "primelooter.db", "Sqlite database recording claim outcomes.")
	lootLoop = lootCmd.Flags().BoolP("loop", "l", false, "Keep running, one pass every 24 hours.")
	lootDebug = lootCmd.Flags().BoolP("debug", "d", false, "Log at debug level.")
	rootCmd.AddCommand(lootCmd)
}

var lootCmd = &cobra.Command{
	Use:   "loot",
	Short: "Runs one looting pass: authenticate, list offers, claim, save codes.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		if *lootDebug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}

		tel, err := telemetry.SetupFromEnv(ctx, "primelooter")
		if err != nil {
			slog.Warn("failed to set up telemetry, continuing without it", "err", err)
		}
		defer tel.Shutdown(context.Background())
		if *lootLoop {
			telemetry.InstrumentPerfStats(ctx)
		}

		allowlist, err := looter.LoadAllowlist(*lootPublishers)
		if err != nil {
			slog.Error("failed to read publishers file", "path", *lootPublishers, "err", err)
			os.Exit(exitTransient)
		}

		history, err := looter.OpenHistory(*lootHistoryDb)
		if err != nil {
			slog.Error("failed to open history db", "path", *lootHistoryDb, "err", err)
			os.Exit(exitTransient)
		}
		defer history.Close()

		codes := codestore.New(*lootCodesFile)

		for {
			slog.Info("starting prime looter")
			err := runOnce(ctx, allowlist, codes, history)

			var authErr looter.AuthError
			switch {
			case errors.As(err, &authErr):
				slog.Error("authentication failed", "reason", string(authErr.Reason))
				os.Exit(exitAuth)
			case err != nil:
				slog.Error("looting pass failed", "err", err)
				if !*lootLoop {
					os.Exit(exitTransient)
				}
				if !sleepCtx(ctx, errorCooldown) {
					return
				}
				continue
			}

			slog.Info("finished looting")
			if !*lootLoop {
				return
			}
			slog.Info("loop enabled, sleeping until the next pass", "cooldown", loopCooldown.String())
			if !sleepCtx(ctx, loopCooldown) {
				return
			}
		}
	},
}

// runOnce builds a fresh session per pass; cookies may have been
// re-exported between passes.
func runOnce(ctx context.Context, allowlist looter.Allowlist, codes *codestore.Store, history *looter.History) error {
	cookies, err := cookiefile.Load(*lootCookies)
	if err != nil {
		return err
	}

	client, err := primegaming.NewClient(primegaming.BaseURL)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.LoginCookies(ctx, cookies); err != nil {
		return err
	}

	service := looter.NewService(looter.Options{
		Gateway:   client,
		Codes:     codes,
		Allowlist: allowlist,
		History:   history,
	})
	return service.Run(ctx)
}

// sleepCtx waits out the duration, returning false if the context
// was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
