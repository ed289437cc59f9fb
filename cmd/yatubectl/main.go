// Command yatubectl performs operator tasks against the yatube database and
// cache: creating groups, listing them and flushing the feed cache.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"

	"github.com/aimerkz/yatube/internal/cache"
	"github.com/aimerkz/yatube/internal/config"
	"github.com/aimerkz/yatube/internal/service"
	"github.com/aimerkz/yatube/internal/storage/sqlite"
	"github.com/aimerkz/yatube/pkg/logging"
)

const usage = `usage: yatubectl <command> [flags]

commands:
  group-create -title T -slug S [-description D]
  group-list
  cache-clear
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	logging.Setup(cfg.Env)
	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "group-create":
		err = groupCreate(ctx, cfg, os.Args[2:])
	case "group-list":
		err = groupList(ctx, cfg)
	case "cache-clear":
		err = cacheClear(ctx, cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		if fields := service.FieldErrors(err); fields != nil {
			for field, msg := range fields {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
			}
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func groupCreate(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("group-create", flag.ExitOnError)
	title := fs.String("title", "", "group title")
	slug := fs.String("slug", "", "URL slug, letters, digits, - and _")
	description := fs.String("description", "", "group description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	group, err := service.NewGroupService(store, slog.Default()).CreateGroup(ctx, *title, *slug, *description)
	if err != nil {
		return err
	}
	fmt.Printf("created group %d /group/%s/\n", group.ID, group.Slug)
	return nil
}

func groupList(ctx context.Context, cfg config.Config) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	groups, err := service.NewGroupService(store, slog.Default()).ListGroups(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tTITLE")
	for _, g := range groups {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
	}
	return tw.Flush()
}

// cacheClear flushes the shared feed cache. The memory backend lives inside
// each server process and expires on its own.
func cacheClear(ctx context.Context, cfg config.Config) error {
	if cfg.CacheBackend != "redis" {
		return errors.New("cache-clear needs CACHE_BACKEND=redis; the memory cache expires within CACHE_TTL")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if err := cache.NewRedis(rdb, cache.RedisKeyPrefix, cfg.CacheTTL).Clear(ctx); err != nil {
		return err
	}
	fmt.Println("feed cache cleared")
	return nil
}
