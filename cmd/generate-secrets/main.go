package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/thermalsanctuary/booking-backend/internal/utils"
)

func main() {
	secrets, err := utils.GenerateEnvSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	fmt.Println("# Thermal Sanctuary booking server")
	fmt.Println(strings.Join(secrets.EnvLines(), "\n"))
	fmt.Println()
	fmt.Println("# Next: sanctuary admin create --email you@example.com")
	fmt.Println("# Keep this file out of version control.")
}
