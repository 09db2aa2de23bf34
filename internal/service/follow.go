package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vladimir-spb/foodgram-backend/internal/models"
)

// Subscription is one entry of a user's subscription listing: the followed
// author with a short view of their recipes.
type Subscription struct {
	ID           uuid.UUID       `json:"id"`
	Username     string          `json:"username"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Email        string          `json:"email"`
	IsSubscribed bool            `json:"is_subscribed"`
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Subscribe makes the user follow the author. Self-follow is forbidden and
// a second subscribe to the same author conflicts.
func (s *FollowService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if userID == authorID {
		return ErrSelfSubscribe
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author models.User
		if err := tx.First(&author, "id = ?", authorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", userID, authorID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadySubscribed
		}

		return tx.Create(&models.Follow{UserID: userID, AuthorID: authorID}).Error
	})
}

// Unsubscribe removes the follow; it fails when the pair is not subscribed.
func (s *FollowService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// IsSubscribed reports whether user follows author; anonymous gets false.
func (s *FollowService) IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) bool {
	if userID == uuid.Nil {
		return false
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// Subscriptions lists the authors the user follows, each with a short view
// of their recipes. recipesLimit <= 0 means no limit.
func (s *FollowService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]Subscription, error) {
	var follows []models.Follow
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&follows).Error; err != nil {
		return nil, err
	}

	subscriptions := make([]Subscription, 0, len(follows))
	for _, follow := range follows {
		var author models.User
		if err := s.db.WithContext(ctx).First(&author, "id = ?", follow.AuthorID).Error; err != nil {
			return nil, err
		}

		query := s.db.WithContext(ctx).
			Where("author_id = ?", author.ID).
			Order("created_at DESC")
		if recipesLimit > 0 {
			query = query.Limit(recipesLimit)
		}
		var recipes []models.Recipe
		if err := query.Find(&recipes).Error; err != nil {
			return nil, err
		}

		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("author_id = ?", author.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}

		summaries := make([]RecipeSummary, 0, len(recipes))
		for _, recipe := range recipes {
			summaries = append(summaries, RecipeSummary{
				ID:          recipe.ID,
				Name:        recipe.Name,
				Image:       recipe.ImageURL,
				CookingTime: recipe.CookingTime,
			})
		}

		subscriptions = append(subscriptions, Subscription{
			ID:           author.ID,
			Username:     author.Username,
			FirstName:    author.FirstName,
			LastName:     author.LastName,
			Email:        author.Email,
			IsSubscribed: true,
			Recipes:      summaries,
			RecipesCount: count,
		})
	}
	return subscriptions, nil
}
