package middlewares

import (
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware menangkap panic handler supaya satu request rusak
// tidak menjatuhkan proses; panic dicatat bersama route-nya lalu request
// dijawab 500 biasa.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Printf("[RECOVER] panic di %s %s: %v\n%s", c.Method(), c.Path(), e, debug.Stack())
		},
	})
}
