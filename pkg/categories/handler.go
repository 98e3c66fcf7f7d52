package categories

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assettrack/pkg/response"
)

type CategoryHandler struct {
	service CategoryService
}

func NewCategoryHandler(service CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/categories", h.listCategories)
	router.GET("/categories/:id", h.getCategoryByID)
	router.POST("/categories", h.createCategory)
	router.PUT("/categories/:id", h.updateCategory)
	router.DELETE("/categories/:id", h.deleteCategory)
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        status  query  string  false  "Filter by status"  Enums(active, inactive)
// @Param        search  query  string  false  "Substring match on name"
// @Success      200  {object}  response.APIResponse{data=[]Category} "Categories listed"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /categories [get]
func (h *CategoryHandler) listCategories(c *gin.Context) {
	filters := CategoryFilters{}

	if status := c.Query("status"); status != "" {
		if !IsValidStatus(status) {
			response.SendError(c, http.StatusBadRequest, "invalid status")
			return
		}
		filters.Status = &status
	}

	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	categoryList, err := h.service.ListCategories(c.Request.Context(), filters)
	if err != nil {
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "categories listed", categoryList)
}

// @Summary      Get category by ID
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  response.APIResponse{data=Category} "Category fetched"
// @Failure      400  {object}  response.APIResponse "Invalid category ID"
// @Failure      404  {object}  response.APIResponse "Category not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /categories/{id} [get]
func (h *CategoryHandler) getCategoryByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := h.service.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		if err == ErrCategoryNotFound {
			response.SendError(c, http.StatusNotFound, "category not found")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "category fetched", category)
}

// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body categoryRequest true "Category creation request"
// @Success      201  {object}  response.APIResponse{data=Category} "Category created"
// @Failure      400  {object}  response.APIResponse "Invalid request payload"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /categories [post]
func (h *CategoryHandler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.Status != "" && !IsValidStatus(req.Status) {
		response.SendError(c, http.StatusBadRequest, "invalid status")
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), Category{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		if err == ErrDuplicateCategory {
			response.SendError(c, http.StatusBadRequest, "category name already exists")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "category created", category)
}

// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Param        request body categoryRequest true "Category update request"
// @Success      200  {object}  response.APIResponse{data=Category} "Category updated"
// @Failure      400  {object}  response.APIResponse "Invalid request"
// @Failure      404  {object}  response.APIResponse "Category not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /categories/{id} [put]
func (h *CategoryHandler) updateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.Status != "" && !IsValidStatus(req.Status) {
		response.SendError(c, http.StatusBadRequest, "invalid status")
		return
	}

	category, err := h.service.UpdateCategory(c.Request.Context(), Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		if err == ErrCategoryNotFound {
			response.SendError(c, http.StatusNotFound, "category not found")
			return
		}
		if err == ErrDuplicateCategory {
			response.SendError(c, http.StatusBadRequest, "category name already exists")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "category updated", category)
}

// @Summary      Delete a category
// @Description  Hard-deletes a category; fails while assets still reference it
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  response.APIResponse "Category deleted"
// @Failure      400  {object}  response.APIResponse "Category has assets"
// @Failure      404  {object}  response.APIResponse "Category not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) deleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		if err == ErrCategoryNotFound {
			response.SendError(c, http.StatusNotFound, "category not found")
			return
		}
		if err == ErrCategoryInUse {
			response.SendError(c, http.StatusBadRequest, "category has assets")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "category deleted", nil)
}
