package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gravity/internal/apierr"
	"gravity/internal/logger"
	"gravity/internal/models"
	"gravity/internal/prompts"
	"gravity/internal/relay"
)

// OfferStore is the offer persistence the handlers use.
type OfferStore interface {
	List(ctx context.Context) ([]models.Offer, error)
	Create(ctx context.Context, p models.Patch) (models.Offer, error)
	Get(ctx context.Context, id uint) (models.Offer, error)
	Update(ctx context.Context, id uint, p models.Patch) (models.Offer, error)
	Delete(ctx context.Context, id uint) error
}

// Generator streams a completion. *relay.Relay implements it.
type Generator interface {
	Start(ctx context.Context, in relay.Input, onDelta func(string) error) (string, error)
}

type Handler struct {
	offers OfferStore
	gen    Generator
	log    logger.Logger
}

func NewHandler(offers OfferStore, gen Generator, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{offers: offers, gen: gen, log: log}
}

// RegisterRoutes mounts the routes at the root of r and again under /api.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	h.mount(r)
	h.mount(r.Group("/api"))
}

func (h *Handler) mount(r gin.IRouter) {
	offers := r.Group("/offers")
	{
		offers.GET("", h.ListOffers)
		offers.POST("", h.CreateOffer)
		offers.GET("/:id", h.GetOffer)
		offers.PUT("/:id", h.UpdateOffer)
		offers.DELETE("/:id", h.DeleteOffer)
		offers.POST("/:id/launch/:kind", h.Launch)
	}
	r.POST("/chat", h.Chat)
	r.POST("/generate", h.Generate)
	r.GET("/steps", h.GetSteps)
}

// ListOffers 获取全部 offer，最新的在前
func (h *Handler) ListOffers(c *gin.Context) {
	offers, err := h.offers.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

// CreateOffer 新建 offer，空 body 使用默认值
func (h *Handler) CreateOffer(c *gin.Context) {
	patch, err := readPatch(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	offer, err := h.offers.Create(c.Request.Context(), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

func (h *Handler) GetOffer(c *gin.Context) {
	id, ok := h.offerID(c)
	if !ok {
		return
	}
	offer, err := h.offers.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

// UpdateOffer 部分更新，未出现的字段保持不变
func (h *Handler) UpdateOffer(c *gin.Context) {
	id, ok := h.offerID(c)
	if !ok {
		return
	}
	patch, err := readPatch(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	offer, err := h.offers.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

// DeleteOffer 删除 offer，不存在时同样返回成功
func (h *Handler) DeleteOffer(c *gin.Context) {
	id, ok := h.offerID(c)
	if !ok {
		return
	}
	if err := h.offers.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSteps 向导步骤与痛点评分说明
func (h *Handler) GetSteps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"steps":        prompts.Steps(),
		"scoringGuide": models.ScoringGuide,
		"todoWeights":  models.TodoWeights(),
	})
}

func (h *Handler) offerID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id", "code": apierr.CodeInvalidID})
		return 0, false
	}
	return uint(id), true
}

func readPatch(c *gin.Context) (models.Patch, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, &models.ValidationError{Field: "body", Reason: "could not be read"}
	}
	return models.ParsePatch(body)
}
