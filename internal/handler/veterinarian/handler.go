package veterinarian

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vetstack/vetclinic-api/internal/handler"
	"github.com/vetstack/vetclinic-api/internal/middleware"
	"github.com/vetstack/vetclinic-api/internal/model"
	"github.com/vetstack/vetclinic-api/internal/service/auth"
	"github.com/vetstack/vetclinic-api/internal/service/authz"
	"github.com/vetstack/vetclinic-api/internal/service/veterinarian"
	apperrors "github.com/vetstack/vetclinic-api/pkg/errors"
)

// Authorization failure messages, one per endpoint kind.
const (
	msgNotAdmin            = "You are not an administrator."
	msgNotAuthorizedView   = "You are not authorized to view the information."
	msgNotAuthorizedUpdate = "You are not authorized to update the information."
)

type Handler struct {
	service *veterinarian.Service
	authSvc *auth.Service
}

func NewHandler(service *veterinarian.Service, authSvc *auth.Service) *Handler {
	return &Handler{service: service, authSvc: authSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	vets := r.Group("/veterinarians")
	{
		// Public endpoints
		vets.GET("", h.ListPublic)
		vets.GET("/:id", h.GetPublic)
		vets.POST("/register", h.Register)
		vets.POST("/login", h.Login)

		// Endpoints requiring a bearer token
		protected := vets.Group("", authMW.Authenticate())
		{
			protected.GET("/full_details", h.ListFull)
			protected.GET("/appointments", h.ListAllAppointments)
			protected.GET("/:id/full_details", h.GetFull)
			protected.GET("/:id/appointments", h.GetAppointments)
			protected.PUT("/:id", h.Update)
			protected.PATCH("/:id", h.Update)
			protected.DELETE("/:id", h.Delete)
		}
	}
}

func (h *Handler) ListPublic(c *gin.Context) {
	vets, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vets)
}

func (h *Handler) ListFull(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	if !authz.Authorize(actor, 0, authz.OpListFull) {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(msgNotAdmin))
		return
	}

	vets, err := h.service.ListFull(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vets)
}

func (h *Handler) ListAllAppointments(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	if !authz.Authorize(actor, 0, authz.OpListAllAppointments) {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(msgNotAdmin))
		return
	}

	appointments, err := h.service.ListAllAppointments(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *Handler) GetPublic(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	vet, err := h.service.GetPublic(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vet)
}

func (h *Handler) GetFull(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	actor := middleware.ActorFromContext(c)
	if !authz.Authorize(actor, id, authz.OpReadFull) {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(msgNotAuthorizedView))
		return
	}

	vet, err := h.service.GetFull(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vet)
}

func (h *Handler) GetAppointments(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	actor := middleware.ActorFromContext(c)
	if !authz.Authorize(actor, id, authz.OpReadAppointments) {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(msgNotAuthorizedView))
		return
	}

	appointments, err := h.service.GetAppointments(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	vet, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vet)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	actor := middleware.ActorFromContext(c)
	if !authz.Authorize(actor, id, authz.OpUpdate) {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(msgNotAuthorizedUpdate))
		return
	}

	req, err := veterinarian.DecodeUpdateRequest(c.Request.Body)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	vet, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vet)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	actor := middleware.ActorFromContext(c)
	if !authz.Authorize(actor, id, authz.OpDelete) {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(msgNotAdmin))
		return
	}

	vet, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewMessageResponse(veterinarian.DeletedMessage(vet)))
}

// parseID reads the :id path parameter. A non-numeric id can never
// match a record, so it surfaces as not-found.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NotFound("veterinarian", err)
	}
	return id, nil
}
