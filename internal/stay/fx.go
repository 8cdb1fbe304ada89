package stay

import (
	"github.com/innkeep/innkeep/internal/stay/repository"
	"github.com/innkeep/innkeep/internal/stay/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stay.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
