package main

import (
	"github.com/sirupsen/logrus"

	"github.com/christian6134/byte-buddy/config"
	"github.com/christian6134/byte-buddy/docstore"
	"github.com/christian6134/byte-buddy/routes"
	"github.com/christian6134/byte-buddy/services"
)

func main() {
	config.InitDB()

	backend := docstore.NewGormBackend(config.DB)
	hub := services.NewRealtimeHub()

	push, err := services.NewPushService(config.DB)
	if err != nil {
		logrus.WithError(err).Warn("push delivery disabled")
		push = nil
	}

	scheduler := services.NewReminderScheduler(hub, push)
	scheduler.Start()
	defer scheduler.Stop()

	sessions := services.NewSessionManager(backend, hub, scheduler)

	r := routes.SetupRouter(routes.Deps{
		Sessions:    sessions,
		Nutritionix: services.NewNutritionixService(),
		Hub:         hub,
		Push:        push,
	})
	r.Run(":8080")
}
