package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

// CategoryPathSeparator joins ancestor names in exported category paths.
const CategoryPathSeparator = " / "

type CategoryNode struct {
	ID       uint           `json:"id"`
	Name     string         `json:"name"`
	ParentID *uint          `json:"parent_id,omitempty"`
	Path     string         `json:"path"`
	Children []CategoryNode `json:"children"`
}

type CategoryService interface {
	CreateCategory(name string, parentID *uint) (*model.Category, error)
	UpdateCategory(id uint, name string, parentID *uint) (*model.Category, error)
	DeleteCategory(id uint) error
	GetCategory(id uint) (*model.Category, error)
	ListCategories() ([]model.Category, error)
	CategoryTree() ([]CategoryNode, error)
	DescendantIDs(id uint) ([]uint, error)
	RelevantCategories() ([]model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) checkName(name string, excludeID uint) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	_, err := s.categoryRepo.FindByName(name, excludeID)
	if err == nil {
		return "", ErrDuplicateCategoryName
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return name, nil
}

func (s *categoryService) CreateCategory(name string, parentID *uint) (*model.Category, error) {
	logger.Info("Creating category", map[string]interface{}{
		"name":      name,
		"parent_id": parentID,
	})

	name, err := s.checkName(name, 0)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if _, err := s.GetCategory(*parentID); err != nil {
			return nil, err
		}
	}

	category := &model.Category{Name: name, ParentID: parentID}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames and reparents. Moving a category under itself or
// one of its descendants is rejected.
func (s *categoryService) UpdateCategory(id uint, name string, parentID *uint) (*model.Category, error) {
	logger.Info("Updating category", map[string]interface{}{
		"category_id": id,
		"name":        name,
		"parent_id":   parentID,
	})

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	name, err = s.checkName(name, id)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if _, err := s.GetCategory(*parentID); err != nil {
			return nil, err
		}
		categories, err := s.categoryRepo.FindAll()
		if err != nil {
			return nil, err
		}
		for _, d := range descendantIDs(categories, id) {
			if d == *parentID {
				logger.Warn("Category reparent would create a cycle", map[string]interface{}{
					"category_id": id,
					"parent_id":   *parentID,
				})
				return nil, ErrCategoryCycle
			}
		}
	}

	category.Name = name
	category.ParentID = parentID
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(id uint) error {
	logger.Info("Deleting category", map[string]interface{}{
		"category_id": id,
	})

	if _, err := s.GetCategory(id); err != nil {
		return err
	}
	children, err := s.categoryRepo.CountChildren(id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrCategoryHasChildren
	}
	templates, err := s.categoryRepo.CountTemplates(id)
	if err != nil {
		return err
	}
	if templates > 0 {
		return ErrCategoryHasTemplates
	}
	return s.categoryRepo.Delete(id)
}

func (s *categoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) CategoryTree() ([]CategoryNode, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return buildCategoryTree(categories), nil
}

func (s *categoryService) DescendantIDs(id uint) ([]uint, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return descendantIDs(categories, id), nil
}

// RelevantCategories returns categories that hold templates plus all their ancestors.
func (s *categoryService) RelevantCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	withTemplates, err := s.categoryRepo.FindIDsWithTemplates()
	if err != nil {
		return nil, err
	}

	byID := indexCategories(categories)
	relevant := make(map[uint]bool)
	for _, id := range withTemplates {
		for current, ok := byID[id]; ok && !relevant[current.ID]; {
			relevant[current.ID] = true
			if current.ParentID == nil {
				break
			}
			current, ok = byID[*current.ParentID]
		}
	}

	result := make([]model.Category, 0, len(relevant))
	for _, c := range categories {
		if relevant[c.ID] {
			result = append(result, c)
		}
	}
	return result, nil
}

func indexCategories(categories []model.Category) map[uint]model.Category {
	byID := make(map[uint]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return byID
}

// descendantIDs returns root followed by every category below it.
func descendantIDs(categories []model.Category, root uint) []uint {
	children := make(map[uint][]uint)
	for _, c := range categories {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	result := []uint{root}
	visited := map[uint]bool{root: true}
	for i := 0; i < len(result); i++ {
		for _, child := range children[result[i]] {
			if !visited[child] {
				visited[child] = true
				result = append(result, child)
			}
		}
	}
	return result
}

// categoryPath walks up from id and returns names from the root down.
func categoryPath(byID map[uint]model.Category, id uint) []string {
	var names []string
	seen := make(map[uint]bool)
	for current, ok := byID[id]; ok && !seen[current.ID]; {
		seen[current.ID] = true
		names = append([]string{current.Name}, names...)
		if current.ParentID == nil {
			break
		}
		current, ok = byID[*current.ParentID]
	}
	return names
}

func buildCategoryTree(categories []model.Category) []CategoryNode {
	byID := indexCategories(categories)
	children := make(map[uint][]model.Category)
	var roots []model.Category
	for _, c := range categories {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if _, ok := byID[*c.ParentID]; !ok {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var build func(c model.Category, depth int) CategoryNode
	build = func(c model.Category, depth int) CategoryNode {
		node := CategoryNode{
			ID:       c.ID,
			Name:     c.Name,
			ParentID: c.ParentID,
			Path:     strings.Join(categoryPath(byID, c.ID), CategoryPathSeparator),
			Children: []CategoryNode{},
		}
		if depth > len(categories) {
			return node
		}
		kids := children[c.ID]
		sort.Slice(kids, func(i, j int) bool { return kids[i].Name < kids[j].Name })
		for _, kid := range kids {
			node.Children = append(node.Children, build(kid, depth+1))
		}
		return node
	}

	sort.Slice(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })
	tree := make([]CategoryNode, 0, len(roots))
	for _, r := range roots {
		tree = append(tree, build(r, 0))
	}
	return tree
}
