package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/innkeep/innkeep/internal/clock"
	"github.com/innkeep/innkeep/internal/config"
	"github.com/innkeep/innkeep/internal/logger"
	"github.com/innkeep/innkeep/internal/migration"
	"github.com/innkeep/innkeep/internal/scheduler"
	"github.com/innkeep/innkeep/internal/seed"
	"github.com/innkeep/innkeep/internal/server"
	"github.com/innkeep/innkeep/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		seed.Module,
		server.Module,
		scheduler.Module,
	)

	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
