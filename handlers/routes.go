// handlers/routes.go
package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"bot-companion-web/middleware"
	"bot-companion-web/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	log "github.com/sirupsen/logrus"
)

// Pages maps each page route to its file under the templates directory.
var Pages = map[string]string{
	"/":             "index.html",
	"/features":     "features.html",
	"/commands":     "commands.html",
	"/dashboard":    "dashboard.html",
	"/contact":      "contact.html",
	"/secret-photo": "photo.html",
}

func SetupRewardRoutes(app *fiber.App, rewardService *services.RewardService, generateLimit int) {
	api := app.Group("/api")
	api.Get("/generate_sock", middleware.GenerateRateLimiter(generateLimit), rewardService.GenerateSock)
	api.Get("/christmas_stats", rewardService.GetChristmasStats)
	api.Get("/claim_status/:code", rewardService.GetClaimStatus)
}

func SetupStatsRoutes(app *fiber.App, statsService *services.StatsService, commandService *services.CommandService, botToken string) {
	api := app.Group("/api")
	api.Get("/stats", statsService.GetStats)
	api.Get("/commands", commandService.GetCommands)

	// 🔐 Bot → web pushes, shared-token only
	api.Post("/bot/stats", middleware.ServiceTokenMiddleware(botToken), statsService.UpdateStats)
}

// SetupPageRoutes serves the HTML pages and /static assets. Page content is
// owned by whoever ships the templates directory.
func SetupPageRoutes(app *fiber.App, templatesDir, staticDir string) {
	for route, file := range Pages {
		app.Get(route, pageHandler(filepath.Join(templatesDir, file)))
	}

	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.Dir(staticDir),
		MaxAge: 3600,
	}))
}

func pageHandler(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := os.Stat(path); err != nil {
			log.Printf("⚠️  [PAGES] %s unavailable: %v", path, err)
			return c.Status(fiber.StatusNotFound).SendString("Page not found")
		}
		return c.SendFile(path)
	}
}
