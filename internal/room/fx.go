package room

import (
	"github.com/innkeep/innkeep/internal/room/repository"
	"github.com/innkeep/innkeep/internal/room/service"
	"go.uber.org/fx"
)

var Module = fx.Module("room.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
