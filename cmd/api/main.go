package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SonrisaDental01/clinic-scheduler/internal/config"
	dbpkg "github.com/SonrisaDental01/clinic-scheduler/internal/db"
	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	grid, err := domain.BuildGrid(
		cfg.MorningStart,
		cfg.MorningEnd,
		cfg.AfternoonStart,
		cfg.AfternoonEnd,
		cfg.SlotMinutes,
	)
	if err != nil {
		log.Fatalf("invalid slot grid configuration: %v", err)
	}

	policy := domain.CalendarPolicy{
		ClosedWeekday: time.Weekday(cfg.ClosedWeekday),
		Grid:          grid,
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, policy)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
