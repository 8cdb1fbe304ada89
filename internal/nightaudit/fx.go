package nightaudit

import (
	"github.com/innkeep/innkeep/internal/nightaudit/repository"
	"github.com/innkeep/innkeep/internal/nightaudit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("nightaudit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
