package folio

import (
	"github.com/innkeep/innkeep/internal/folio/repository"
	"github.com/innkeep/innkeep/internal/folio/service"
	"go.uber.org/fx"
)

var Module = fx.Module("folio.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
