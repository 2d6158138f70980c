package main

import (
	"os"

	_ "github.com/tbourn/farmwise-backend/docs"
	"github.com/tbourn/farmwise-backend/internal/cli"
)

//	@title			FarmWise Advisory API
//	@version		1.0
//	@description	Crop recommendation, yield estimation and reference data for farmers.
//	@BasePath		/api

var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
