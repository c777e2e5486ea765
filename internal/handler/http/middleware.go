package handler

import (
	"context"
	"net/http"

	"github.com/rookgm/kitchenflow/internal/models"
	"github.com/rookgm/kitchenflow/internal/service"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const actorRoleKey contextKey = "actor_role"

const stationKeyHeader = "X-Station-Key"

// FOHAuth resolves the front of house role from the staff auth token
// cookie and puts it into the request context
func FOHAuth(ts service.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, ok := verifyStaffToken(r, ts)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), actorRoleKey, payload.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BOHAuth resolves the kitchen role from the device-shared station key
// header and puts it into the request context
func BOHAuth(stationKeyHash string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !verifyStationKey(r, stationKeyHash) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), actorRoleKey, models.RoleBOH)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AnyAuth accepts either channel's credential, for the read-only polling
// endpoints both sides use
func AnyAuth(ts service.TokenService, stationKeyHash string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var role models.ActorRole

			switch {
			case r.Header.Get(stationKeyHeader) != "":
				if !verifyStationKey(r, stationKeyHash) {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				role = models.RoleBOH
			default:
				payload, ok := verifyStaffToken(r, ts)
				if !ok {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				role = payload.Role
			}

			ctx := context.WithValue(r.Context(), actorRoleKey, role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verifyStaffToken(r *http.Request, ts service.TokenService) (*models.TokenPayload, bool) {
	cookie, err := r.Cookie("auth_token")
	if err != nil {
		return nil, false
	}

	payload, err := ts.VerifyToken(cookie.Value)
	if err != nil {
		return nil, false
	}
	if payload.Role != models.RoleFOH {
		return nil, false
	}

	return payload, true
}

func verifyStationKey(r *http.Request, stationKeyHash string) bool {
	key := r.Header.Get(stationKeyHeader)
	if key == "" || stationKeyHash == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(stationKeyHash), []byte(key)) == nil
}

// getActorRole extracts the resolved actor role from context
func getActorRole(ctx context.Context) (models.ActorRole, bool) {
	role, ok := ctx.Value(actorRoleKey).(models.ActorRole)
	return role, ok
}
