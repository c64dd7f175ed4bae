package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wicketwatch/config"
	"wicketwatch/lib"
	"wicketwatch/lib/models"
)

func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, svc *lib.Service) *http.Server {
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{Addr: addr, Handler: router(cfg, log, svc)}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go srv.ListenAndServe()
			return nil
		},
		OnStop: srv.Shutdown,
	})

	return srv
}

func router(cfg *config.Config, log *zap.Logger, svc *lib.Service) http.Handler {
	ctrl := &controller{log, svc}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apiKeyAuth(cfg.APIKey))

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/", ctrl.registerNotification)
			r.Delete("/", ctrl.unregisterNotification)
			r.Get("/", ctrl.listNotifications)
		})
		r.Get("/matches", ctrl.queryMatches)
	})

	return r
}

const apiKeyHeader = "X-Api-Key"

func apiKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(apiKeyHeader) != apiKey {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type controller struct {
	log *zap.Logger
	svc *lib.Service
}

func (ctrl *controller) reject(w http.ResponseWriter, status int, err error) {
	if err != nil {
		http.Error(w, err.Error(), status)
	} else {
		w.WriteHeader(status)
	}
}

func (ctrl *controller) rejectOnServiceError(w http.ResponseWriter, err error) {
	var reqErr *lib.RequestError
	switch {
	case errors.As(err, &reqErr):
		ctrl.reject(w, http.StatusBadRequest, reqErr)
	case errors.Is(err, lib.ErrNotFound):
		ctrl.reject(w, http.StatusNotFound, err)
	default:
		ctrl.reject(w, http.StatusInternalServerError, err)
	}
}

func (ctrl *controller) resolve(w http.ResponseWriter, status int, body any) {
	if b, err := json.Marshal(body); err != nil {
		ctrl.reject(w, http.StatusInternalServerError, err)
		ctrl.log.Sugar().Error("Request failed", "error", err)
		return
	} else {
		w.WriteHeader(status)
		if b != nil {
			w.Write(b)
		}
	}
}

func (ctrl *controller) registerNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req lib.RegisterNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	sub, err := ctrl.svc.RegisterNotification(ctx, &req)
	if err != nil {
		ctrl.rejectOnServiceError(w, err)
		return
	}
	ctrl.resolve(w, http.StatusCreated, NotificationView{}.From(*sub))
}

type unregisterNotificationRequest struct {
	RegistrationToken string `json:"registrationToken"`
	Platform          string `json:"platform"`
	MatchID           string `json:"matchId"`
	TeamInQuestion    string `json:"teamInQuestion"`
	NotificationType  string `json:"notificationType"`
	NumberOfWickets   *int   `json:"numberOfWickets"`
}

func (ctrl *controller) unregisterNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req unregisterNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	notifType, err := models.ParseNotificationType(req.NotificationType)
	if err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}
	platform := req.Platform
	if platform == "" {
		platform = models.PlatformFCM
	}

	key := models.SubscriptionKey{
		MatchID:         req.MatchID,
		Type:            notifType,
		TeamInQuestion:  req.TeamInQuestion,
		NumberOfWickets: req.NumberOfWickets,
	}
	recipient := models.Recipient{Platform: platform, Token: req.RegistrationToken}

	if err := ctrl.svc.UnregisterNotification(ctx, key, recipient); err != nil {
		ctrl.rejectOnServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ctrl *controller) listNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		ctrl.reject(w, http.StatusBadRequest, errors.New("token is required"))
		return
	}
	platform := r.URL.Query().Get("platform")
	if platform == "" {
		platform = models.PlatformFCM
	}

	subs, err := ctrl.svc.ListNotifications(ctx, models.Recipient{Platform: platform, Token: token})
	if err != nil {
		ctrl.rejectOnServiceError(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[models.Subscription, NotificationView](subs))
}

func (ctrl *controller) queryMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	matchType := r.URL.Query().Get("matchType")
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			ctrl.reject(w, http.StatusBadRequest, errors.New("page must be a number"))
			return
		}
		page = parsed
	}

	matches, count, err := ctrl.svc.QueryMatches(ctx, matchType, page)
	if err != nil {
		ctrl.rejectOnServiceError(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, QueryMatchesView{
		Count:   count,
		Matches: FromMany[models.Match, MatchView](matches),
	})
}
