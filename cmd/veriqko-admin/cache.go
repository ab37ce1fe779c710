package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
)

// deviceCachePattern matches every cached device model entry. It mirrors
// the key layout the device service writes.
const deviceCachePattern = "device:*"

type cacheListOptions struct {
	Limit int
}

type cacheClearOptions struct {
	DryRun bool
	Yes    bool
}

type deviceCacheEntry struct {
	Key   string
	Brand string
	Model string
	TTL   time.Duration
}

// cachedDevice is the subset of the cached payload shown in listings.
type cachedDevice struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
}

func runListDeviceCache(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-device-cache", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opts := cacheListOptions{}
	fs.IntVar(&opts.Limit, "limit", 100, "Maximum number of entries to display")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.Limit <= 0 {
		return errors.New("--limit must be greater than zero")
	}

	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		entries, total, err := collectDeviceCacheEntries(ctx, client, cmdCtx.Logger, opts.Limit)
		if err != nil {
			return err
		}
		return renderDeviceCacheTable(entries, total, opts.Limit)
	})
}

func runClearDeviceCache(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("clear-device-cache", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opts := cacheClearOptions{}
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Report matching keys without deleting them")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if confirmErr := confirmAction(cacheClearConfirmOptions{opts}, "clear device cache entries"); confirmErr != nil {
		return confirmErr
	}

	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		cmdCtx.Logger.Info("scanning redis", "pattern", deviceCachePattern, "dry_run", opts.DryRun)
		iter := client.Scan(ctx, 0, deviceCachePattern, 1000).Iterator()
		keys := make([]string, 0)
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan redis: %w", err)
		}
		if len(keys) == 0 {
			cmdCtx.Logger.Info("no device cache entries found")
			return nil
		}
		if opts.DryRun {
			cmdCtx.Logger.Info("redis keys matched", "count", len(keys))
			return nil
		}
		for start := 0; start < len(keys); start += 100 {
			end := min(start+100, len(keys))
			if err := client.Del(ctx, keys[start:end]...).Err(); err != nil {
				return fmt.Errorf("delete redis keys: %w", err)
			}
		}
		cmdCtx.Logger.Info("device cache entries deleted", "count", len(keys))
		return nil
	})
}

func collectDeviceCacheEntries(
	ctx context.Context,
	client redis.UniversalClient,
	logger *slog.Logger,
	limit int,
) ([]deviceCacheEntry, int, error) {
	iter := client.Scan(ctx, 0, deviceCachePattern, 1000).Iterator()
	entries := make([]deviceCacheEntry, 0)
	total := 0
	for iter.Next(ctx) {
		key := iter.Val()
		total++
		if len(entries) >= limit {
			continue
		}

		entry := deviceCacheEntry{Key: key}

		payload, err := client.Get(ctx, key).Bytes()
		if err != nil {
			logger.Warn("skipping redis key", "key", key, "error", err)
			continue
		}
		var device cachedDevice
		if unmarshalErr := json.Unmarshal(payload, &device); unmarshalErr != nil {
			logger.Warn("skipping unreadable cache entry", "key", key, "error", unmarshalErr)
			continue
		}
		entry.Brand = device.Brand
		entry.Model = device.Model

		ttl, err := client.TTL(ctx, key).Result()
		if err != nil {
			return nil, 0, fmt.Errorf("query redis ttl for key %q: %w", key, err)
		}
		entry.TTL = ttl

		entries = append(entries, entry)
	}
	if err := iter.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan redis: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Brand == entries[j].Brand {
			return entries[i].Model < entries[j].Model
		}
		return entries[i].Brand < entries[j].Brand
	})

	return entries, total, nil
}

func renderDeviceCacheTable(entries []deviceCacheEntry, total, limit int) error {
	if total == 0 {
		return writeln(os.Stdout, "No cached device entries found.")
	}

	if total > limit {
		if err := writef(os.Stdout, "Showing %d of %d cached entries (raise --limit to see more).\n\n", limit, total); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(w, "KEY\tBRAND\tMODEL\tTTL\n"); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writef(w, "%s\t%s\t%s\t%s\n", entry.Key, entry.Brand, entry.Model, formatRedisTTL(entry.TTL)); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush device cache table: %w", err)
	}
	return nil
}

func formatRedisTTL(ttl time.Duration) string {
	switch {
	case ttl == -1*time.Second:
		return "no expiry"
	case ttl == -2*time.Second:
		return "key missing"
	default:
		return ttl.String()
	}
}

type cacheClearConfirmOptions struct {
	opts cacheClearOptions
}

func (c cacheClearConfirmOptions) IsDryRun() bool { return c.opts.DryRun }
func (c cacheClearConfirmOptions) IsYes() bool    { return c.opts.Yes }
func (c cacheClearConfirmOptions) GetWarning() string {
	return "WARNING: this will remove every cached device model entry; reads fall back to Postgres until the cache refills."
}
func (c cacheClearConfirmOptions) GetTarget() string { return "" }

func withRedis(cmdCtx *commandContext, f func(context.Context, redis.UniversalClient) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	client, err := connectRedisOnly(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	return f(ctx, client)
}
