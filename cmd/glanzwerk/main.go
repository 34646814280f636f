package main

import (
	_ "time/tzdata"

	"github.com/glanzwerk/invoicing/internal/catalog"
	"github.com/glanzwerk/invoicing/internal/clock"
	"github.com/glanzwerk/invoicing/internal/config"
	"github.com/glanzwerk/invoicing/internal/invoice"
	"github.com/glanzwerk/invoicing/internal/layout"
	"github.com/glanzwerk/invoicing/internal/observability"
	"github.com/glanzwerk/invoicing/internal/providers"
	"github.com/glanzwerk/invoicing/internal/server"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		clock.Module,

		// Invoicing
		catalog.Module,
		layout.Module,
		providers.Module,
		invoice.Module,

		server.Module,
	)
	app.Run()
}
