package api

import (
	"net/http"

	"github.com/dom/videotube/internal/api/handlers"
	"github.com/dom/videotube/internal/api/middleware"
	"github.com/dom/videotube/internal/config"
	"github.com/dom/videotube/internal/domain"
	"github.com/dom/videotube/internal/logging"
	"github.com/dom/videotube/internal/service"
	"github.com/dom/videotube/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	userHandler := handlers.NewUserHandler(services.User, cfg)
	videoHandler := handlers.NewVideoHandler(services.Video, cfg)
	commentHandler := handlers.NewCommentHandler(services.Comment)
	tweetHandler := handlers.NewTweetHandler(services.Tweet)
	playlistHandler := handlers.NewPlaylistHandler(services.Playlist)
	likeHandler := handlers.NewLikeHandler(services.Like)
	subscriptionHandler := handlers.NewSubscriptionHandler(services.Subscription)
	dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
	feedHandler := handlers.NewFeedHandler(hub, services.Auth, cfg)

	requireAuth := middleware.Auth(services.Auth)

	r.Route("/api/v1", func(r chi.Router) {
		// Authenticates on its own so the token can ride in the query string
		r.Get("/feed/ws", feedHandler.Handle)

		r.Route("/users", func(r chi.Router) {
			// Public session routes, limited per client IP
			r.Group(func(r chi.Router) {
				if cfg.AuthRateLimit > 0 {
					r.Use(httprate.LimitByIP(cfg.AuthRateLimit, cfg.AuthRateLimitWindow))
				}
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/refresh-token", authHandler.RefreshToken)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.Logout)
				r.Get("/current-user", authHandler.CurrentUser)
				r.Post("/change-password", authHandler.ChangePassword)
				r.Patch("/update-profile", userHandler.UpdateProfile)
				r.Patch("/update-avatar", userHandler.UpdateAvatar)
				r.Patch("/update-cover-image", userHandler.UpdateCoverImage)
				r.Get("/c/{username}", userHandler.ChannelProfile)
				r.Get("/watch-history", userHandler.WatchHistory)
			})
		})

		// Everything below requires a session
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/videos", func(r chi.Router) {
				r.Get("/", videoHandler.List)
				r.Post("/", videoHandler.Publish)
				r.Get("/{videoId}", videoHandler.Get)
				r.Delete("/{videoId}", videoHandler.Delete)
				r.Patch("/update-video/{videoId}", videoHandler.UpdateDetails)
				r.Patch("/update-thumbnail/{videoId}", videoHandler.UpdateThumbnail)
				r.Patch("/toggle-publish-status/{videoId}", videoHandler.TogglePublish)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/{videoId}", commentHandler.List)
				r.Post("/{videoId}", commentHandler.Add)
				r.Patch("/c/{commentId}", commentHandler.Update)
				r.Delete("/c/{commentId}", commentHandler.Delete)
			})

			r.Route("/tweets", func(r chi.Router) {
				r.Post("/", tweetHandler.Create)
				r.Get("/user/{userId}", tweetHandler.ListByUser)
				r.Patch("/{tweetId}", tweetHandler.Update)
				r.Delete("/{tweetId}", tweetHandler.Delete)
			})

			r.Route("/playlists", func(r chi.Router) {
				r.Post("/", playlistHandler.Create)
				r.Get("/user/{userId}", playlistHandler.ListByUser)
				r.Get("/{playlistId}", playlistHandler.Get)
				r.Patch("/{playlistId}", playlistHandler.Update)
				r.Delete("/{playlistId}", playlistHandler.Delete)
				r.Patch("/add/{videoId}/{playlistId}", playlistHandler.AddVideo)
				r.Patch("/remove/{videoId}/{playlistId}", playlistHandler.RemoveVideo)
			})

			r.Route("/likes", func(r chi.Router) {
				r.Post("/toggle-like/v/{id}", likeHandler.Toggle(domain.SubjectVideo, domain.ReactionLike))
				r.Post("/toggle-like/c/{id}", likeHandler.Toggle(domain.SubjectComment, domain.ReactionLike))
				r.Post("/toggle-like/t/{id}", likeHandler.Toggle(domain.SubjectTweet, domain.ReactionLike))
				r.Post("/toggle-dislike/v/{id}", likeHandler.Toggle(domain.SubjectVideo, domain.ReactionDislike))
				r.Post("/toggle-dislike/c/{id}", likeHandler.Toggle(domain.SubjectComment, domain.ReactionDislike))
				r.Post("/toggle-dislike/t/{id}", likeHandler.Toggle(domain.SubjectTweet, domain.ReactionDislike))
				r.Get("/videos", likeHandler.LikedVideos)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/c/{channelId}", subscriptionHandler.Toggle)
				r.Get("/c/{channelId}", subscriptionHandler.Subscribers)
				r.Get("/u/{subscriberId}", subscriptionHandler.SubscribedChannels)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", dashboardHandler.Stats)
				r.Get("/videos", dashboardHandler.Videos)
			})
		})
	})

	return r
}
