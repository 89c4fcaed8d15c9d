// Package bizsubs предоставляет маршруты для основного приложения.
package bizsubs

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	activitylist "github.com/bizsubs/bizsubs/internal/http/handlers/activity/list"
	"github.com/bizsubs/bizsubs/internal/http/handlers/auth/login"
	"github.com/bizsubs/bizsubs/internal/http/handlers/auth/register"
	clientcreate "github.com/bizsubs/bizsubs/internal/http/handlers/client/create"
	clientlist "github.com/bizsubs/bizsubs/internal/http/handlers/client/list"
	clientread "github.com/bizsubs/bizsubs/internal/http/handlers/client/read"
	clientremove "github.com/bizsubs/bizsubs/internal/http/handlers/client/remove"
	clientupdate "github.com/bizsubs/bizsubs/internal/http/handlers/client/update"
	exportdeals "github.com/bizsubs/bizsubs/internal/http/handlers/export/deals"
	exportsubscriptions "github.com/bizsubs/bizsubs/internal/http/handlers/export/subscriptions"
	exporttaxreport "github.com/bizsubs/bizsubs/internal/http/handlers/export/taxreport"
	"github.com/bizsubs/bizsubs/internal/http/handlers/health"
	dealcreate "github.com/bizsubs/bizsubs/internal/http/handlers/lifetimedeal/create"
	deallist "github.com/bizsubs/bizsubs/internal/http/handlers/lifetimedeal/list"
	dealread "github.com/bizsubs/bizsubs/internal/http/handlers/lifetimedeal/read"
	dealremove "github.com/bizsubs/bizsubs/internal/http/handlers/lifetimedeal/remove"
	"github.com/bizsubs/bizsubs/internal/http/handlers/lifetimedeal/resell"
	dealupdate "github.com/bizsubs/bizsubs/internal/http/handlers/lifetimedeal/update"
	preferencesget "github.com/bizsubs/bizsubs/internal/http/handlers/preferences/get"
	preferencesupdate "github.com/bizsubs/bizsubs/internal/http/handlers/preferences/update"
	projectcreate "github.com/bizsubs/bizsubs/internal/http/handlers/project/create"
	projectlist "github.com/bizsubs/bizsubs/internal/http/handlers/project/list"
	projectremove "github.com/bizsubs/bizsubs/internal/http/handlers/project/remove"
	projectupdate "github.com/bizsubs/bizsubs/internal/http/handlers/project/update"
	reportportfolio "github.com/bizsubs/bizsubs/internal/http/handlers/report/portfolio"
	reportsummary "github.com/bizsubs/bizsubs/internal/http/handlers/report/summary"
	reporttax "github.com/bizsubs/bizsubs/internal/http/handlers/report/tax"
	subscriptioncreate "github.com/bizsubs/bizsubs/internal/http/handlers/subscription/create"
	subscriptionlist "github.com/bizsubs/bizsubs/internal/http/handlers/subscription/list"
	subscriptionread "github.com/bizsubs/bizsubs/internal/http/handlers/subscription/read"
	subscriptionremove "github.com/bizsubs/bizsubs/internal/http/handlers/subscription/remove"
	subscriptionupdate "github.com/bizsubs/bizsubs/internal/http/handlers/subscription/update"
	teaminvite "github.com/bizsubs/bizsubs/internal/http/handlers/team/invite"
	teamlist "github.com/bizsubs/bizsubs/internal/http/handlers/team/list"
	teamremove "github.com/bizsubs/bizsubs/internal/http/handlers/team/remove"
	"github.com/bizsubs/bizsubs/internal/http/middlewarectx"
	"github.com/bizsubs/bizsubs/internal/lib/jwt"
	activityservice "github.com/bizsubs/bizsubs/internal/services/activity"
	authservice "github.com/bizsubs/bizsubs/internal/services/auth"
	clientservice "github.com/bizsubs/bizsubs/internal/services/client"
	exportservice "github.com/bizsubs/bizsubs/internal/services/export"
	dealservice "github.com/bizsubs/bizsubs/internal/services/lifetimedeal"
	preferencesservice "github.com/bizsubs/bizsubs/internal/services/preferences"
	projectservice "github.com/bizsubs/bizsubs/internal/services/project"
	reportservice "github.com/bizsubs/bizsubs/internal/services/report"
	subscriptionservice "github.com/bizsubs/bizsubs/internal/services/subscription"
	teamservice "github.com/bizsubs/bizsubs/internal/services/team"
)

// Services собирает сервисы приложения для регистрации маршрутов.
type Services struct {
	Auth         *authservice.AuthService
	Subscription *subscriptionservice.SubscriptionService
	Deal         *dealservice.DealService
	Client       *clientservice.ClientService
	Project      *projectservice.ProjectService
	Report       *reportservice.ReportService
	Export       *exportservice.ExportService
	Team         *teamservice.TeamService
	Activity     *activityservice.ActivityService
	Preferences  *preferencesservice.PreferencesService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/subscriptions", subscriptioncreate.New(logger, s.Subscription).ServeHTTP)
			r.Get("/subscriptions/list", subscriptionlist.New(logger, s.Subscription).ServeHTTP)
			r.Get("/subscriptions/{id}", subscriptionread.New(logger, s.Subscription).ServeHTTP)
			r.Put("/subscriptions/{id}", subscriptionupdate.New(logger, s.Subscription).ServeHTTP)
			r.Delete("/subscriptions/{id}", subscriptionremove.New(logger, s.Subscription).ServeHTTP)

			r.Post("/deals", dealcreate.New(logger, s.Deal).ServeHTTP)
			r.Get("/deals/list", deallist.New(logger, s.Deal).ServeHTTP)
			r.Get("/deals/{id}", dealread.New(logger, s.Deal).ServeHTTP)
			r.Put("/deals/{id}", dealupdate.New(logger, s.Deal).ServeHTTP)
			r.Delete("/deals/{id}", dealremove.New(logger, s.Deal).ServeHTTP)
			r.Post("/deals/{id}/resell", resell.New(logger, s.Deal).ServeHTTP)

			r.Post("/clients", clientcreate.New(logger, s.Client).ServeHTTP)
			r.Get("/clients/list", clientlist.New(logger, s.Client).ServeHTTP)
			r.Get("/clients/{id}", clientread.New(logger, s.Client).ServeHTTP)
			r.Put("/clients/{id}", clientupdate.New(logger, s.Client).ServeHTTP)
			r.Delete("/clients/{id}", clientremove.New(logger, s.Client).ServeHTTP)

			r.Post("/projects", projectcreate.New(logger, s.Project).ServeHTTP)
			r.Get("/projects/list", projectlist.New(logger, s.Project).ServeHTTP)
			r.Put("/projects/{id}", projectupdate.New(logger, s.Project).ServeHTTP)
			r.Delete("/projects/{id}", projectremove.New(logger, s.Project).ServeHTTP)

			r.Get("/reports/summary", reportsummary.New(logger, s.Report).ServeHTTP)
			r.Get("/reports/tax", reporttax.New(logger, s.Report).ServeHTTP)
			r.Get("/reports/portfolio", reportportfolio.New(logger, s.Report).ServeHTTP)

			r.Get("/export/subscriptions", exportsubscriptions.New(logger, s.Export).ServeHTTP)
			r.Get("/export/deals", exportdeals.New(logger, s.Export).ServeHTTP)
			r.Get("/export/tax", exporttaxreport.New(logger, s.Export).ServeHTTP)

			r.Post("/team", teaminvite.New(logger, s.Team).ServeHTTP)
			r.Get("/team", teamlist.New(logger, s.Team).ServeHTTP)
			r.Delete("/team/{id}", teamremove.New(logger, s.Team).ServeHTTP)

			r.Get("/activity", activitylist.New(logger, s.Activity).ServeHTTP)

			r.Get("/preferences", preferencesget.New(logger, s.Preferences).ServeHTTP)
			r.Put("/preferences", preferencesupdate.New(logger, s.Preferences).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
