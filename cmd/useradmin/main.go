package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/emfoursolutions/mtxbridge/internal/platform/config"
	"github.com/emfoursolutions/mtxbridge/internal/platform/database"
	"github.com/emfoursolutions/mtxbridge/internal/platform/models"
	"github.com/emfoursolutions/mtxbridge/internal/platform/repositories"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: useradmin [-config path] <list|create|promote|demote|activate|deactivate> [args]")
	fmt.Fprintln(os.Stderr, "  list")
	fmt.Fprintln(os.Stderr, "  create <username> <password> [email] [display name]")
	fmt.Fprintln(os.Stderr, "  promote <username>")
	fmt.Fprintln(os.Stderr, "  demote <username>")
	fmt.Fprintln(os.Stderr, "  activate <username>")
	fmt.Fprintln(os.Stderr, "  deactivate <username>")
	os.Exit(2)
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	admin := flag.Bool("admin", false, "Create the user as an administrator")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	userRepo := repositories.NewUserRepository(db)

	switch args[0] {
	case "list":
		users, err := userRepo.List()
		if err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}
		if len(users) == 0 {
			fmt.Println("No users found.")
			return
		}
		fmt.Printf("%-40s %-20s %-30s %-6s %-6s\n", "ID", "Username", "Email", "Admin", "Active")
		for _, u := range users {
			fmt.Printf("%-40s %-20s %-30s %-6v %-6v\n", u.ID, u.Username, u.Email, u.IsAdmin, u.IsActive)
		}

	case "create":
		if len(args) < 3 {
			usage()
		}
		username, password := args[1], args[2]

		existing, err := userRepo.GetByUsername(username)
		if err != nil {
			log.Fatalf("Failed to look up user: %v", err)
		}
		if existing != nil {
			log.Fatalf("User %q already exists", username)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		user := &models.User{
			Username:     username,
			PasswordHash: string(hash),
			IsActive:     true,
			IsAdmin:      *admin,
		}
		if len(args) > 3 {
			user.Email = args[3]
		}
		if len(args) > 4 {
			user.DisplayName = args[4]
		}

		if err := userRepo.Create(user); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		fmt.Printf("User %q created (admin: %v)\n", username, user.IsAdmin)

	case "promote", "demote":
		if len(args) < 2 {
			usage()
		}
		if err := userRepo.SetAdmin(args[1], args[0] == "promote"); err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}
		fmt.Printf("User %q updated\n", args[1])

	case "activate", "deactivate":
		if len(args) < 2 {
			usage()
		}
		if err := userRepo.SetActive(args[1], args[0] == "activate"); err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}
		fmt.Printf("User %q updated\n", args[1])

	default:
		usage()
	}
}
