// res2csv exports JSON resource inventories to per-type CSV files.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/hupe1980/res2csv/internal/cli"
)

func main() {
	// Optional .env support for RES2CSV_* variables.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
