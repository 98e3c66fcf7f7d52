package categories

import "context"

type CategoryService interface {
	CreateCategory(ctx context.Context, input Category) (Category, error)
	UpdateCategory(ctx context.Context, input Category) (Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategoryByID(ctx context.Context, id int64) (Category, error)
	ListCategories(ctx context.Context, filters CategoryFilters) ([]Category, error)
}

type categoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) CreateCategory(ctx context.Context, input Category) (Category, error) {
	if input.Status == "" {
		input.Status = StatusActive
	}
	return s.repo.CreateCategory(ctx, input)
}

func (s *categoryService) UpdateCategory(ctx context.Context, input Category) (Category, error) {
	return s.repo.UpdateCategory(ctx, input)
}

func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	return s.repo.GetCategoryByID(ctx, id)
}

func (s *categoryService) ListCategories(ctx context.Context, filters CategoryFilters) ([]Category, error) {
	return s.repo.ListCategories(ctx, filters)
}
