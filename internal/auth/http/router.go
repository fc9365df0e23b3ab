package http

import (
	"net/http"

	"github.com/inkpress/inkpress/backend/internal/auth/service"
	"github.com/inkpress/inkpress/backend/internal/common/config"
	commonhttp "github.com/inkpress/inkpress/backend/internal/common/http"
	"github.com/inkpress/inkpress/backend/internal/common/logger"
	userdomain "github.com/inkpress/inkpress/backend/internal/user/domain"
)

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type Handler struct {
	auth *service.AuthService
	log  *logger.Logger
}

func NewHandler(auth *service.AuthService, cfg config.APIConfig, log *logger.Logger) http.Handler {
	h := &Handler{auth: auth, log: log}

	post := commonhttp.RequireMethod(http.MethodPost)
	withTimeout := commonhttp.WithTimeout(cfg.RequestTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/user/signup", post(withTimeout(h.signup)))
	mux.HandleFunc("/api/v1/user/signin", post(withTimeout(h.signin)))
	return mux
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("signup failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	result, err := h.auth.Register(r.Context(), service.SignupInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toAuthResponse(result))
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("signin failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	result, err := h.auth.Authenticate(r.Context(), service.SigninInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toAuthResponse(result))
}

func toAuthResponse(result service.AuthResult) authResponse {
	return authResponse{
		Token: result.Token,
		User:  toUserView(result.User),
	}
}

func toUserView(user userdomain.User) userView {
	return userView{
		ID:       string(user.ID),
		Username: user.Username,
		Name:     user.Name,
	}
}
