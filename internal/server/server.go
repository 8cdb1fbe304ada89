package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/innkeep/innkeep/internal/config"
	"github.com/innkeep/innkeep/internal/folio"
	foliodomain "github.com/innkeep/innkeep/internal/folio/domain"
	"github.com/innkeep/innkeep/internal/guest"
	guestdomain "github.com/innkeep/innkeep/internal/guest/domain"
	"github.com/innkeep/innkeep/internal/nightaudit"
	nightauditdomain "github.com/innkeep/innkeep/internal/nightaudit/domain"
	obslogger "github.com/innkeep/innkeep/internal/observability/logger"
	"github.com/innkeep/innkeep/internal/reservation"
	reservationdomain "github.com/innkeep/innkeep/internal/reservation/domain"
	"github.com/innkeep/innkeep/internal/room"
	roomdomain "github.com/innkeep/innkeep/internal/room/domain"
	"github.com/innkeep/innkeep/internal/stay"
	staydomain "github.com/innkeep/innkeep/internal/stay/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	guest.Module,
	room.Module,
	stay.Module,
	reservation.Module,
	folio.Module,
	nightaudit.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with recovery, request logging, and the
// health/metrics endpoints.
func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log.Named("http")))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	log            *zap.Logger
	guestSvc       guestdomain.Service
	roomSvc        roomdomain.Service
	staySvc        staydomain.Service
	reservationSvc reservationdomain.Service
	folioSvc       foliodomain.Service
	nightAuditSvc  nightauditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	Log            *zap.Logger
	GuestSvc       guestdomain.Service
	RoomSvc        roomdomain.Service
	StaySvc        staydomain.Service
	ReservationSvc reservationdomain.Service
	FolioSvc       foliodomain.Service
	NightAuditSvc  nightauditdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		log:            p.Log.Named("server"),
		guestSvc:       p.GuestSvc,
		roomSvc:        p.RoomSvc,
		staySvc:        p.StaySvc,
		reservationSvc: p.ReservationSvc,
		folioSvc:       p.FolioSvc,
		nightAuditSvc:  p.NightAuditSvc,
	}
}

func registerRoutes(s *Server) {
	v1 := s.engine.Group("/v1")

	guests := v1.Group("/guests")
	guests.POST("", s.CreateGuest)
	guests.GET("", s.ListGuests)
	guests.GET("/:id", s.GetGuest)
	guests.PATCH("/:id", s.UpdateGuest)

	rooms := v1.Group("/rooms")
	rooms.POST("", s.CreateRoom)
	rooms.GET("", s.ListRooms)
	rooms.GET("/:roomNumber", s.GetRoom)
	rooms.PUT("/:roomNumber/status", s.SetRoomStatus)

	reservations := v1.Group("/reservations")
	reservations.POST("", s.CreateReservation)
	reservations.GET("", s.ListReservations)
	reservations.GET("/:id", s.GetReservation)
	reservations.PATCH("/:id", s.UpdateReservation)
	reservations.POST("/:id/cancel", s.CancelReservation)
	reservations.POST("/:id/check-in", s.CheckIn)
	reservations.POST("/:id/check-out", s.CheckOut)
	reservations.GET("/:id/folio", s.GetFolio)
	reservations.POST("/:id/postings", s.AddPosting)
	reservations.POST("/:id/payments", s.AddPayment)

	v1.POST("/postings/:id/void", s.VoidPosting)

	stays := v1.Group("/stays")
	stays.GET("", s.ListStays)

	audit := v1.Group("/night-audit")
	audit.POST("/run", s.RunNightAudit)
	audit.GET("/logs/:businessDay", s.GetAuditRunLog)
	audit.POST("/issues/:issueKey/ack", s.AcknowledgeAuditIssue)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
