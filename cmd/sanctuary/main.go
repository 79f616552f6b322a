package main

import (
	"os"

	"github.com/thermalsanctuary/booking-backend/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
