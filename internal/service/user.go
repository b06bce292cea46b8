package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/model"
)

// UserService serves profiles, avatars and the follow graph.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserDetail is the profile representation. IsSubscribed is relative to the
// viewer and false for anonymous requests.
type UserDetail struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Avatar       string    `json:"avatar"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// FollowUserDetail extends the profile with the user's recipes, as returned
// by the subscribe/subscriptions endpoints.
type FollowUserDetail struct {
	UserDetail
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID, viewer *uuid.UUID) (*UserDetail, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.buildDetail(ctx, &user, viewer)
}

func (s *UserService) ListUsers(ctx context.Context, limit, page int, viewer *uuid.UUID) ([]*UserDetail, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		query = query.Limit(limit)
		if page > 1 {
			query = query.Offset((page - 1) * limit)
		}
	}

	var users []model.User
	if err := query.Order("username").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	details := make([]*UserDetail, 0, len(users))
	for i := range users {
		detail, err := s.buildDetail(ctx, &users[i], viewer)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, detail)
	}
	return details, total, nil
}

// UpdateAvatar stores a new avatar reference for the user.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatar string) error {
	result := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("avatar", avatar)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	return s.UpdateAvatar(ctx, userID, "")
}

// Subscribe adds a follow edge and returns the followed user with their
// recipes. Self-follows and duplicates are rejected.
func (s *UserService) Subscribe(ctx context.Context, userID, targetID uuid.UUID) (*FollowUserDetail, error) {
	if userID == targetID {
		return nil, ErrSelfFollow
	}

	var target model.User
	if err := s.db.WithContext(ctx).First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	follow := model.Follow{UserID: userID, FollowingID: targetID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}

	return s.buildFollowDetail(ctx, &target, &userID, 0)
}

func (s *UserService) Unsubscribe(ctx context.Context, userID, targetID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, targetID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// Subscriptions lists the users the viewer follows, each with up to
// recipesLimit of their recipes (0 means all).
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit, limit, page int) ([]*FollowUserDetail, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		query = query.Limit(limit)
		if page > 1 {
			query = query.Offset((page - 1) * limit)
		}
	}

	var users []model.User
	if err := query.Order("users.username").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	details := make([]*FollowUserDetail, 0, len(users))
	for i := range users {
		detail, err := s.buildFollowDetail(ctx, &users[i], &userID, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, detail)
	}
	return details, total, nil
}

func (s *UserService) buildDetail(ctx context.Context, user *model.User, viewer *uuid.UUID) (*UserDetail, error) {
	detail := &UserDetail{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
	}
	if viewer != nil {
		var follows int64
		if err := s.db.WithContext(ctx).Model(&model.Follow{}).
			Where("user_id = ? AND following_id = ?", *viewer, user.ID).
			Count(&follows).Error; err != nil {
			return nil, err
		}
		detail.IsSubscribed = follows > 0
	}
	return detail, nil
}

func (s *UserService) buildFollowDetail(ctx context.Context, user *model.User, viewer *uuid.UUID, recipesLimit int) (*FollowUserDetail, error) {
	base, err := s.buildDetail(ctx, user, viewer)
	if err != nil {
		return nil, err
	}
	detail := &FollowUserDetail{UserDetail: *base, Recipes: []RecipeShort{}}

	if err := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Where("author_id = ?", user.ID).
		Count(&detail.RecipesCount).Error; err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Where("author_id = ?", user.ID).
		Order("created_at DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}
	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	for _, r := range recipes {
		detail.Recipes = append(detail.Recipes, RecipeShort{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.Image,
			CookingTime: r.CookingTime,
		})
	}
	return detail, nil
}
