// Command admin provides operator utilities for yatube.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/repository"
	"yatube/internal/service"
)

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin promote <username>                      - Grant admin access")
	fmt.Println("  go run ./cmd/admin demote <username>                       - Revoke admin access")
	fmt.Println("  go run ./cmd/admin create-group <slug> <title> [description]")
	fmt.Println("  go run ./cmd/admin list-groups")
	fmt.Println("  go run ./cmd/admin clear-cache                             - Drop cached index pages")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	command := os.Args[1]

	if command == "clear-cache" {
		clearCache(ctx, cfg)
		return
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	users := service.NewUserService(repository.NewUserRepository(db))
	groups := service.NewGroupService(repository.NewGroupRepository(db))

	switch command {
	case "promote", "demote":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: go run ./cmd/admin %s <username>\n", command)
			os.Exit(1)
		}
		user, err := users.SetAdmin(ctx, os.Args[2], command == "promote")
		if err != nil {
			log.Fatalf("Failed to %s %s: %v", command, os.Args[2], err)
		}
		fmt.Printf("%s (ID: %d) admin=%t\n", user.Username, user.ID, user.IsAdmin)

	case "create-group":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin create-group <slug> <title> [description]")
			os.Exit(1)
		}
		in := service.CreateGroupInput{Slug: os.Args[2], Title: os.Args[3]}
		if len(os.Args) > 4 {
			in.Description = os.Args[4]
		}
		group, err := groups.CreateGroup(ctx, in)
		if err != nil {
			log.Fatalf("Failed to create group: %v", err)
		}
		fmt.Printf("Created group %q (ID: %d) at /group/%s/\n", group.Title, group.ID, group.Slug)

	case "list-groups":
		list, err := groups.ListGroups(ctx)
		if err != nil {
			log.Fatalf("Failed to list groups: %v", err)
		}
		if len(list) == 0 {
			fmt.Println("No groups found")
			return
		}
		for _, g := range list {
			fmt.Printf("ID: %d | Slug: %s | Title: %s\n", g.ID, g.Slug, g.Title)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func clearCache(ctx context.Context, cfg *config.Config) {
	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()
	if rdb == nil {
		fmt.Println("Redis is not reachable; the page cache lives inside the server process.")
		fmt.Println("Use POST /admin/cache/clear as an admin user instead.")
		os.Exit(1)
	}
	defer rdb.Close()

	store := cache.NewPageStore(rdb, cfg.IndexCacheTTL)
	if err := store.Clear(ctx); err != nil {
		log.Fatalf("Failed to clear page cache: %v", err)
	}
	fmt.Println("Page cache cleared")
}
