// Command seed fills the database with demo content.
package main

import (
	"flag"
	"log"
	"time"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numGroups := flag.Int("groups", defaults.NumGroups, "Number of groups to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	numComments := flag.Int("comments", defaults.NumComments, "Number of comments to create")
	follows := flag.Int("follows", defaults.FollowsPerUser, "Follows per user")
	days := flag.Int("days", defaults.MaxDays, "Spread post dates over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	password := flag.String("password", seed.DefaultPassword, "Password for every seeded user")
	flag.Parse()

	log.Printf("Target: %d users, %d groups, %d posts, clean=%v", *numUsers, *numGroups, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if _, err := seed.Seed(db, seed.Options{
		NumUsers:       *numUsers,
		NumGroups:      *numGroups,
		NumPosts:       *numPosts,
		NumComments:    *numComments,
		FollowsPerUser: *follows,
		MaxDays:        *days,
		ShouldClean:    *shouldClean,
		RandSeed:       time.Now().UnixNano(),
		Password:       *password,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("All seeded users have the password: %s", *password)
}
