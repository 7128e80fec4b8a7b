// Command seed populates the database with demo users and posts.
package main

import (
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	users := flag.Int("users", 5, "number of users to create")
	posts := flag.Int("posts", 4, "number of posts per user")
	password := flag.String("password", "password123", "password for all seeded users")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.DefaultOptions()
	opts.Users = *users
	opts.PostsPerUser = *posts
	opts.Password = *password

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users with %d posts each", opts.Users, opts.PostsPerUser)
}
