package reservation

import (
	"github.com/innkeep/innkeep/internal/reservation/repository"
	"github.com/innkeep/innkeep/internal/reservation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reservation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
