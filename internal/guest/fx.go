package guest

import (
	"github.com/innkeep/innkeep/internal/guest/repository"
	"github.com/innkeep/innkeep/internal/guest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("guest.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
