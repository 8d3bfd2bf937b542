package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/config"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/form"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/models"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRecipeNotFound = apperr.ErrNotFound
	ErrNotOwner       = errors.New("recipe belongs to another user")
	ErrEmptyBatch     = &apperr.ValidationError{Fields: map[string]string{"recipes": "At least one recipe is required."}}
)

// RecipeService is the document store: a flat recipes collection where any
// caller may read and only the owner may update or delete.
type RecipeService struct {
	db      *gorm.DB
	maxList int
}

func NewRecipeService(db *gorm.DB, cfg *config.Config) *RecipeService {
	return &RecipeService{db: db, maxList: cfg.RecipeListMaximum}
}

func toDomain(rows []models.Recipe) ([]recipes.Recipe, error) {
	out := make([]recipes.Recipe, 0, len(rows))
	for i := range rows {
		r, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// normalize trims the text fields and turns an empty image URL into absent.
func normalize(f recipes.Fields) recipes.Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.Steps = strings.TrimSpace(f.Steps)
	if f.ImageURL != nil {
		u := strings.TrimSpace(*f.ImageURL)
		if u == "" {
			f.ImageURL = nil
		} else {
			f.ImageURL = &u
		}
	}
	return f
}

// List scans one page of the collection, newest first. Pages hold at most
// the configured maximum; more reports whether records follow the page. An
// owner that is not a valid id matches nothing.
func (s *RecipeService) List(q recipes.Query) (out []recipes.Recipe, more bool, err error) {
	defer func() { metrics.RecordRecipeOp("list", err) }()

	limit := q.Limit
	if limit <= 0 || limit > s.maxList {
		limit = s.maxList
	}

	query := s.db.Order("created_at DESC").Order("id DESC").Offset(max(q.Offset, 0)).Limit(limit + 1)
	if q.OwnerID != "" {
		ownerID, err := uuid.Parse(q.OwnerID)
		if err != nil {
			return []recipes.Recipe{}, false, nil
		}
		query = query.Scopes(models.OwnedBy(ownerID))
	}

	var rows []models.Recipe
	if err := query.Find(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("failed to list recipes: %w", err)
	}
	if len(rows) > limit {
		rows, more = rows[:limit], true
	}
	out, err = toDomain(rows)
	return out, more, err
}

func (s *RecipeService) find(db *gorm.DB, id string) (*models.Recipe, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRecipeNotFound
	}
	var row models.Recipe
	if err := db.First(&row, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &row, nil
}

func (s *RecipeService) Get(id string) (r recipes.Recipe, err error) {
	defer func() { metrics.RecordRecipeOp("get", err) }()

	row, err := s.find(s.db, id)
	if err != nil {
		return recipes.Recipe{}, err
	}
	return row.ToDomain()
}

func (s *RecipeService) Create(ownerID uuid.UUID, f recipes.Fields) (r recipes.Recipe, err error) {
	defer func() { metrics.RecordRecipeOp("create", err) }()

	f = normalize(f)
	if err := form.CheckFields(f); err != nil {
		return recipes.Recipe{}, err
	}

	row := models.Recipe{OwnerID: ownerID}
	if err := row.Apply(f); err != nil {
		return recipes.Recipe{}, err
	}
	if err := s.db.Create(&row).Error; err != nil {
		return recipes.Recipe{}, fmt.Errorf("failed to create recipe: %w", err)
	}
	return row.ToDomain()
}

// CreateBatch inserts every recipe in one transaction. Nothing is written
// when one of them is invalid or fails.
func (s *RecipeService) CreateBatch(ownerID uuid.UUID, fs []recipes.Fields) (out []recipes.Recipe, err error) {
	defer func() { metrics.RecordRecipeOp("batch", err) }()

	if len(fs) == 0 {
		return nil, ErrEmptyBatch
	}

	rows := make([]models.Recipe, len(fs))
	for i, f := range fs {
		f = normalize(f)
		if err := form.CheckFields(f); err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
		rows[i].OwnerID = ownerID
		if err := rows[i].Apply(f); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("batch insert rolled back", "user_id", ownerID.String(), "count", len(rows), "error", err)
		return nil, fmt.Errorf("failed to insert recipes: %w", err)
	}

	metrics.RecordBatchImport(len(rows))
	return toDomain(rows)
}

func (s *RecipeService) Update(ownerID uuid.UUID, id string, f recipes.Fields) (r recipes.Recipe, err error) {
	defer func() { metrics.RecordRecipeOp("update", err) }()

	f = normalize(f)
	if err := form.CheckFields(f); err != nil {
		return recipes.Recipe{}, err
	}

	var row *models.Recipe
	err = s.db.Transaction(func(tx *gorm.DB) error {
		found, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if found.OwnerID != ownerID {
			return ErrNotOwner
		}
		if err := found.Apply(f); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(found).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		row = found
		return nil
	})
	if err != nil {
		return recipes.Recipe{}, err
	}
	return row.ToDomain()
}

func (s *RecipeService) Delete(ownerID uuid.UUID, id string) (err error) {
	defer func() { metrics.RecordRecipeOp("delete", err) }()

	return s.db.Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if row.OwnerID != ownerID {
			return ErrNotOwner
		}
		if err := tx.Delete(row).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}
