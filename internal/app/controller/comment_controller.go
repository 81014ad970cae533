package controller

import (
	"errors"
	"net/http"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/service"
	apperrors "github.com/cixi/storefront-backend/internal/errors"
	"github.com/cixi/storefront-backend/internal/middleware"
	"github.com/cixi/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type DeleteCommentRequest struct {
	CommentID interface{} `json:"commentId"`
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLoginRequired):
		apperrors.Unauthorized(c, "Debes iniciar sesión para comentar")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Producto no encontrado")
	case errors.Is(err, service.ErrCommentEmpty):
		apperrors.BadRequest(c, apperrors.CommentInvalid, "El comentario no puede estar vacío")
	case errors.Is(err, service.ErrCommentTooLong):
		apperrors.BadRequest(c, apperrors.ValidationTooLong, "El comentario supera los 500 caracteres")
	case errors.Is(err, service.ErrCommentNotFound):
		apperrors.NotFound(c, apperrors.CommentNotFound, "Comentario no encontrado")
	case errors.Is(err, service.ErrCommentForbidden):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "Solo el autor o un administrador puede eliminarlo")
	default:
		middleware.GetLoggerFromContext(c).Error("Comment operation failed", err)
		apperrors.InternalError(c, "")
	}
}

// ListComments returns a product's comments, newest first
// GET /api/v1/products/:id/comments
func (ctrl *CommentController) ListComments(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := ctrl.commentService.ListComments(productID)
	if err != nil {
		respondCommentError(c, err)
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// CreateComment
// POST /api/v1/products/:id/comments
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	identity := middleware.GetIdentity(c)
	if identity == nil {
		apperrors.Unauthorized(c, "Debes iniciar sesión para comentar")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Datos inválidos")
		return
	}

	comment, err := ctrl.commentService.AddComment(identity, productID, req.Content)
	if err != nil {
		respondCommentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment takes the comment id from the body
// DELETE /api/v1/products/:id/comments
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	identity := middleware.GetIdentity(c)
	if identity == nil {
		apperrors.Unauthorized(c, "")
		return
	}

	var req DeleteCommentRequest
	_ = c.ShouldBindJSON(&req)
	commentID, ok := util.ToID(req.CommentID)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Comentario inválido")
		return
	}

	if err := ctrl.commentService.DeleteComment(identity, productID, commentID); err != nil {
		respondCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comentario eliminado"})
}
