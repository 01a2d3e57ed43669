package auth

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO, clientIP string) (AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (AccessToken, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	Logout(ctx context.Context, principal internal.Principal, refreshToken string) error
	LogoutDevice(ctx context.Context, principal internal.Principal, deviceID int64) error
	ActiveDevices(ctx context.Context, principal internal.Principal) ([]ActiveDevice, error)
	RequestPasswordReset(ctx context.Context, dto PasswordResetRequestDTO) error
	ConfirmPasswordReset(ctx context.Context, uid, token string, dto PasswordResetConfirmDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	tokens, err := h.Service.Login(r.Context(), dto, clientIP(r))
	if err != nil {
		h.Logger.Info("authentication failed", "username", dto.Username, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	token, err := h.Service.Refresh(r.Context(), dto.Refresh)
	if err != nil {
		h.Logger.Info("token refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, token)
}

// Logout ends a device session when device_id is given, otherwise the
// session owning the refresh token in the body.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	var dto LogoutDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var err error
	if dto.DeviceID != nil {
		err = h.Service.LogoutDevice(r.Context(), principal, *dto.DeviceID)
	} else {
		err = h.Service.Logout(r.Context(), principal, dto.Refresh)
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully."})
}

func (h *Handler) ActiveDevices(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	devices, err := h.Service.ActiveDevices(r.Context(), principal)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, devices)
}

func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var dto PasswordResetRequestDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := h.Service.RequestPasswordReset(r.Context(), dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password reset link sent."})
}

func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var dto PasswordResetConfirmDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	uid := chi.URLParam(r, "uid")
	token := chi.URLParam(r, "token")
	if err := h.Service.ConfirmPasswordReset(r.Context(), uid, token, dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Password has been reset successfully."})
}

// AuthMiddleware decodes the bearer token once and attaches the caller's
// principal to the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.Debug("auth middleware: missing authorization token", "path", r.URL.Path)
			h.WriteAppError(w, internal.ErrMissingToken)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Info("token validation failed", "error", err, "path", r.URL.Path)
			h.HandleServiceError(w, err)
			return
		}

		principal := internal.Principal{
			UserID:  claims.UserID,
			Role:    claims.Role,
			TokenID: claims.ID,
		}

		ctx := internal.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
