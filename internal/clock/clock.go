package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts time.Now so the night-audit business-day boundary can be
// tested with frozen instants.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewSystemClock() Clock {
	return SystemClock{}
}

// Module provides the real clock.
var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)
