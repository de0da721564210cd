package main

import (
	"fmt"
	"log"
	"os"

	"github.com/apexdrive/rental-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// Generates the secrets the server reads from the environment: the JWT
// signing keys and, when a password is passed as the first argument, the
// bcrypt hash for ADMIN_PASSWORD_HASH.
func main() {
	accessSecret, refreshSecret, err := utils.GenerateJWTSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	fmt.Println("Add these to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)

	if len(os.Args) > 1 {
		hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
	}

	fmt.Println()
	fmt.Println("Keep these out of version control.")
}
