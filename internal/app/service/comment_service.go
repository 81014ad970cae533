package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCommentEmpty     = errors.New("comment is empty")
	ErrCommentTooLong   = errors.New("comment is too long")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCommentForbidden = errors.New("only the author or an admin can delete a comment")
)

type CommentService interface {
	ListComments(productID uint) ([]model.Comment, error)
	AddComment(identity *model.Identity, productID uint, content string) (*model.Comment, error)
	DeleteComment(identity *model.Identity, productID, commentID uint) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	productRepo repository.ProductRepository
}

func NewCommentService(commentRepo repository.CommentRepository, productRepo repository.ProductRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		productRepo: productRepo,
	}
}

func (s *commentService) ensureProduct(productID uint) error {
	_, err := s.productRepo.FindByID(productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}

func (s *commentService) ListComments(productID uint) ([]model.Comment, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByProduct(productID)
}

func (s *commentService) AddComment(identity *model.Identity, productID uint, content string) (*model.Comment, error) {
	if identity == nil {
		return nil, ErrLoginRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if utf8.RuneCountInString(content) > model.MaxCommentLength {
		return nil, ErrCommentTooLong
	}
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ProductID: productID,
		UserID:    identity.UserID,
		Content:   content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		logger.Error("Failed to create comment", err, map[string]interface{}{
			"product_id": productID,
			"user_id":    identity.UserID,
		})
		return nil, err
	}

	logger.Info("Comment created", map[string]interface{}{
		"comment_id": comment.ID,
		"product_id": productID,
	})
	return comment, nil
}

func (s *commentService) DeleteComment(identity *model.Identity, productID, commentID uint) error {
	if identity == nil {
		return ErrLoginRequired
	}

	comment, err := s.commentRepo.FindByID(commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && comment.ProductID != productID) {
		return ErrCommentNotFound
	}
	if err != nil {
		return err
	}

	if !identity.IsAdmin() && comment.UserID != identity.UserID {
		logger.Warn("Comment delete forbidden", map[string]interface{}{
			"comment_id": commentID,
			"user_id":    identity.UserID,
		})
		return ErrCommentForbidden
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return err
	}
	logger.Info("Comment deleted", map[string]interface{}{
		"comment_id": commentID,
		"by_admin":   identity.IsAdmin(),
	})
	return nil
}
