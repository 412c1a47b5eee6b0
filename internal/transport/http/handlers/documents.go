package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// DocumentHandler exposes documents. Creation and listing are nested under the
// owning vehicle, driver or shipment.
type DocumentHandler struct {
	create func(owner domain.DocumentOwnerKind) gin.HandlerFunc
	list   func(owner domain.DocumentOwnerKind) gin.HandlerFunc
	get    gin.HandlerFunc
	update gin.HandlerFunc
	delete gin.HandlerFunc
}

func NewDocumentHandler(resolver usecase.PrincipalResolver, documents *usecase.DocumentService, rsp *Responder) *DocumentHandler {
	create := usecase.Authenticated(resolver, usecase.PolicyDocumentCreate.Name, documents.Create)
	list := usecase.Authenticated(resolver, usecase.PolicyDocumentList.Name, documents.ListByOwner)

	return &DocumentHandler{
		create: func(owner domain.DocumentOwnerKind) gin.HandlerFunc {
			return jsonEndpoint(rsp, http.StatusCreated, create, func(c *gin.Context, in *usecase.CreateDocumentInput) {
				in.OwnerKind = owner
				in.OwnerID = c.Param("id")
			})
		},
		list: func(owner domain.DocumentOwnerKind) gin.HandlerFunc {
			return listEndpoint(rsp, list, func(c *gin.Context, in *usecase.ListDocumentsInput) {
				in.OwnerKind = owner
				in.OwnerID = c.Param("id")
			})
		},
		get: idEndpoint(rsp, usecase.Authenticated(resolver, usecase.PolicyDocumentRead.Name, documents.Get)),
		update: jsonEndpoint(rsp, http.StatusOK, usecase.Authenticated(resolver, usecase.PolicyDocumentUpdate.Name, documents.Update),
			bindID(func(in *usecase.UpdateDocumentInput, id string) { in.ID = id })),
		delete: deleteEndpoint(rsp, usecase.AuthenticatedExec(resolver, usecase.PolicyDocumentDelete.Name, documents.Delete)),
	}
}

func (h *DocumentHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/:id", h.get)
	r.PATCH("/:id", h.update)
	r.DELETE("/:id", h.delete)
}

// RegisterOwnerRoutes mounts the nested document routes on an owner group
// whose resources are addressed by :id.
func (h *DocumentHandler) RegisterOwnerRoutes(r *gin.RouterGroup, owner domain.DocumentOwnerKind) {
	r.POST("/:id/documents", h.create(owner))
	r.GET("/:id/documents", h.list(owner))
}
