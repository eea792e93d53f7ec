package posts

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/minisocial/services/autherr"
	"github.com/tech-arch1tect/minisocial/services/logging"
	"github.com/tech-arch1tect/minisocial/services/users"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrForbidden       = errors.New("cannot change content owned by a different user")
	ErrInvalidInput    = errors.New("invalid post data")
)

type Service struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger.Named("posts"),
	}
}

func (s *Service) CreatePost(ctx context.Context, ownerID uuid.UUID, in PostInput) (*Post, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}

	post := &Post{
		Title:   in.Title,
		Content: in.Content,
		OwnerID: ownerID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, s.storageError("failed to create post", err)
	}

	s.logger.Info("post created",
		zap.String("post_id", post.ID.String()),
		zap.String("owner_id", ownerID.String()))

	return post, nil
}

func (s *Service) GetPost(ctx context.Context, id uuid.UUID) (*PostDetail, error) {
	post, err := s.findPost(ctx, s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	details, err := s.withCounts(ctx, []Post{*post})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *Service) ListPosts(ctx context.Context, offset, limit int) ([]PostDetail, error) {
	offset, limit = users.NormalizePage(offset, limit)

	var posts []Post
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, s.storageError("failed to list posts", err)
	}

	return s.withCounts(ctx, posts)
}

// ListByOwner returns every post of a user with engagement counts.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]PostDetail, error) {
	var posts []Post
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, s.storageError("failed to list user posts", err)
	}

	return s.withCounts(ctx, posts)
}

// UpdatePost applies a partial update by the post's owner and stamps
// updated_at.
func (s *Service) UpdatePost(ctx context.Context, actorID, id uuid.UUID, in PostUpdate) (*PostDetail, error) {
	updates := map[string]any{}
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
		updates["title"] = *in.Title
	}
	if in.Content != nil {
		if err := validateContent(*in.Content); err != nil {
			return nil, err
		}
		updates["content"] = *in.Content
	}
	updates["updated_at"] = time.Now()

	post, err := s.findPost(ctx, s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != actorID {
		return nil, ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(post).Updates(updates).Error; err != nil {
		return nil, s.storageError("failed to update post", err)
	}

	return s.GetPost(ctx, id)
}

func (s *Service) DeletePost(ctx context.Context, actorID, id uuid.UUID) error {
	post, err := s.findPost(ctx, s.db.WithContext(ctx), id)
	if err != nil {
		return err
	}
	if post.OwnerID != actorID {
		return ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(post).Error; err != nil {
		return s.storageError("failed to delete post", err)
	}

	s.logger.Info("post deleted", zap.String("post_id", id.String()))
	return nil
}

func (s *Service) CreateComment(ctx context.Context, actorID, postID uuid.UUID, content string) (*Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if _, err := s.findPost(ctx, s.db.WithContext(ctx), postID); err != nil {
		return nil, err
	}

	comment := &Comment{
		Content: content,
		OwnerID: actorID,
		PostID:  postID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, s.storageError("failed to create comment", err)
	}

	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, postID uuid.UUID, offset, limit int) ([]Comment, error) {
	if _, err := s.findPost(ctx, s.db.WithContext(ctx), postID); err != nil {
		return nil, err
	}
	offset, limit = users.NormalizePage(offset, limit)

	var comments []Comment
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, s.storageError("failed to list comments", err)
	}
	return comments, nil
}

// GetPostComment returns the comment only when it belongs to postID.
func (s *Service) GetPostComment(ctx context.Context, postID, commentID uuid.UUID) (*Comment, error) {
	var comment Comment
	err := s.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		Take(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, s.storageError("failed to load comment", err)
	}
	return &comment, nil
}

func (s *Service) GetComment(ctx context.Context, id uuid.UUID) (*Comment, error) {
	var comment Comment
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, s.storageError("failed to load comment", err)
	}
	return &comment, nil
}

// UpdateComment replaces the content of a comment owned by actorID and
// stamps last_edited.
func (s *Service) UpdateComment(ctx context.Context, actorID, id uuid.UUID, content string) (*Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}

	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != actorID {
		return nil, ErrForbidden
	}

	err = s.db.WithContext(ctx).Model(comment).Updates(map[string]any{
		"content":     content,
		"last_edited": time.Now(),
	}).Error
	if err != nil {
		return nil, s.storageError("failed to update comment", err)
	}

	return s.GetComment(ctx, id)
}

func (s *Service) DeleteComment(ctx context.Context, actorID, id uuid.UUID) error {
	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if comment.OwnerID != actorID {
		return ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(comment).Error; err != nil {
		return s.storageError("failed to delete comment", err)
	}
	return nil
}

// Like records that userID likes postID. Liking twice is a no-op.
func (s *Service) Like(ctx context.Context, userID, postID uuid.UUID) (*Like, error) {
	var like Like
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findPost(ctx, tx, postID); err != nil {
			return err
		}

		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Like{UserID: userID, PostID: postID}).Error
		if err != nil {
			return err
		}

		return tx.Where("user_id = ? AND post_id = ?", userID, postID).Take(&like).Error
	})
	if err != nil {
		// findPost has already logged and wrapped its own failures.
		if errors.Is(err, ErrPostNotFound) || errors.Is(err, autherr.ErrStorageUnavailable) {
			return nil, err
		}
		return nil, s.storageError("failed to like post", err)
	}
	return &like, nil
}

// Unlike removes the like, if any.
func (s *Service) Unlike(ctx context.Context, userID, postID uuid.UUID) error {
	if _, err := s.findPost(ctx, s.db.WithContext(ctx), postID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&Like{}).Error
	if err != nil {
		return s.storageError("failed to unlike post", err)
	}
	return nil
}

func (s *Service) findPost(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Post, error) {
	var post Post
	if err := db.Where("id = ?", id).Take(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, s.storageError("failed to load post", err)
	}
	return &post, nil
}

type postCount struct {
	PostID uuid.UUID
	Total  int64
}

func (s *Service) withCounts(ctx context.Context, posts []Post) ([]PostDetail, error) {
	details := make([]PostDetail, len(posts))
	if len(posts) == 0 {
		return details, nil
	}

	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		details[i].Post = p
	}

	likes, err := s.countBy(ctx, &Like{}, ids)
	if err != nil {
		return nil, err
	}
	comments, err := s.countBy(ctx, &Comment{}, ids)
	if err != nil {
		return nil, err
	}

	for i := range details {
		details[i].LikesCount = likes[details[i].ID]
		details[i].CommentsCount = comments[details[i].ID]
	}
	return details, nil
}

func (s *Service) countBy(ctx context.Context, model any, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []postCount
	err := s.db.WithContext(ctx).
		Model(model).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, s.storageError("failed to count post engagement", err)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

func (s *Service) storageError(msg string, err error) error {
	s.logger.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, autherr.Storage(err))
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, MaxTitleLength)
	}
	return nil
}

func validateContent(content string) error {
	if content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return fmt.Errorf("%w: content must be at most %d characters", ErrInvalidInput, MaxContentLength)
	}
	return nil
}
