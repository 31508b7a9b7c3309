package handlers

import (
	"megamind_api/internal/game"
	"megamind_api/internal/repository"
	"megamind_api/internal/service"
	"megamind_api/internal/shapes"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB      *pgxpool.Pool
	Users   *repository.UserRepository
	Auth    *service.AuthService
	Streaks *service.StreakService
	Games   *game.Registry
	Catalog *shapes.Catalog
}

func NewHandler(db *pgxpool.Pool, games *game.Registry, catalog *shapes.Catalog, mailer service.Mailer) *Handler {
	users := repository.NewUserRepository(db)
	return &Handler{
		DB:      db,
		Users:   users,
		Auth:    service.NewAuthService(users, mailer),
		Streaks: service.NewStreakService(users),
		Games:   games,
		Catalog: catalog,
	}
}

// getUserID pulls the user id the JWT middleware stored in the context.
func getUserID(c *gin.Context) (string, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	uid, ok := uidVal.(string)
	return uid, ok && uid != ""
}
