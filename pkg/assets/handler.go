package assets

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"assettrack/pkg/response"
)

type AssetHandler struct {
	service AssetService
}

func NewAssetHandler(service AssetService) *AssetHandler {
	return &AssetHandler{service: service}
}

func (h *AssetHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/assets", h.listAssets)
	router.GET("/assets/stock", h.stockSummary)
	router.GET("/assets/:id", h.getAssetByID)
	router.GET("/assets/:id/history", h.getAssetHistory)
	router.POST("/assets", h.createAsset)
	router.PUT("/assets/:id", h.updateAsset)
	router.POST("/assets/issue", h.issueAsset)
	router.POST("/assets/return", h.returnAsset)
	router.POST("/assets/scrap", h.scrapAsset)
}

type createAssetRequest struct {
	AssetID       string     `json:"asset_id" binding:"required"`
	SerialNumber  string     `json:"serial_number" binding:"required"`
	CategoryID    int64      `json:"category_id" binding:"required"`
	Make          string     `json:"make"`
	Model         string     `json:"model"`
	Description   string     `json:"description"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	PurchasePrice float64    `json:"purchase_price"`
	Branch        *string    `json:"branch"`
}

type issueAssetRequest struct {
	AssetID    int64  `json:"asset_id" binding:"required"`
	EmployeeID int64  `json:"employee_id" binding:"required"`
	Remarks    string `json:"remarks"`
}

type returnAssetRequest struct {
	AssetID int64  `json:"asset_id" binding:"required"`
	Reason  string `json:"reason"`
	Remarks string `json:"remarks"`
}

// @Summary      List assets
// @Description  Retrieves assets with optional filters, newest first
// @Tags         assets
// @Produce      json
// @Param        status       query  string  false  "Filter by status"  Enums(available, assigned, repair, scrapped)
// @Param        category_id  query  int     false  "Filter by category ID"
// @Param        branch       query  string  false  "Filter by branch"
// @Param        search       query  string  false  "Substring match on asset id, serial number, make, model"
// @Success      200  {object}  response.APIResponse{data=[]AssetDetail} "Assets listed"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /assets [get]
func (h *AssetHandler) listAssets(c *gin.Context) {
	filters := AssetFilters{}

	if status := c.Query("status"); status != "" {
		if !IsValidStatus(status) {
			response.SendError(c, http.StatusBadRequest, "invalid status")
			return
		}
		filters.Status = &status
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		categoryID, err := strconv.ParseInt(categoryIDStr, 10, 64)
		if err != nil || categoryID <= 0 {
			response.SendError(c, http.StatusBadRequest, "invalid category_id")
			return
		}
		filters.CategoryID = &categoryID
	}

	if branch := c.Query("branch"); branch != "" {
		filters.Branch = &branch
	}

	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}

	assetList, err := h.service.ListAssets(c.Request.Context(), filters)
	if err != nil {
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "assets listed", assetList)
}

// @Summary      Stock summary
// @Description  Counts and values available assets grouped by branch and category
// @Tags         assets
// @Produce      json
// @Success      200  {object}  response.APIResponse{data=[]StockRow} "Stock summarized"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /assets/stock [get]
func (h *AssetHandler) stockSummary(c *gin.Context) {
	stock, err := h.service.StockSummary(c.Request.Context())
	if err != nil {
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "stock summarized", stock)
}

// @Summary      Get asset by ID
// @Description  Retrieves one asset with its category and assigned employee
// @Tags         assets
// @Produce      json
// @Param        id   path      int  true  "Asset ID"
// @Success      200  {object}  response.APIResponse{data=AssetDetail} "Asset fetched"
// @Failure      400  {object}  response.APIResponse "Invalid asset ID"
// @Failure      404  {object}  response.APIResponse "Asset not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /assets/{id} [get]
func (h *AssetHandler) getAssetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendError(c, http.StatusBadRequest, "invalid asset id")
		return
	}

	asset, err := h.service.GetAssetByID(c.Request.Context(), id)
	if err != nil {
		if err == ErrAssetNotFound {
			response.SendError(c, http.StatusNotFound, "asset not found")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "asset fetched", asset)
}

// @Summary      Asset history
// @Description  Retrieves an asset and its ledger entries, newest first
// @Tags         assets
// @Produce      json
// @Param        id   path      int  true  "Asset ID"
// @Success      200  {object}  response.APIResponse{data=AssetHistory} "History fetched"
// @Failure      400  {object}  response.APIResponse "Invalid asset ID"
// @Failure      404  {object}  response.APIResponse "Asset not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /assets/{id}/history [get]
func (h *AssetHandler) getAssetHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendError(c, http.StatusBadRequest, "invalid asset id")
		return
	}

	history, err := h.service.GetAssetHistory(c.Request.Context(), id)
	if err != nil {
		if err == ErrAssetNotFound {
			response.SendError(c, http.StatusNotFound, "asset not found")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "asset history fetched", history)
}

// @Summary      Create an asset
// @Description  Registers a new asset; it starts available and unassigned
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body createAssetRequest true "Asset creation request"
// @Success      201  {object}  response.APIResponse{data=Asset} "Asset created"
// @Failure      400  {object}  response.APIResponse "Invalid request payload"
// @Failure      404  {object}  response.APIResponse "Category not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /assets [post]
func (h *AssetHandler) createAsset(c *gin.Context) {
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.PurchasePrice < 0 {
		response.SendError(c, http.StatusBadRequest, "purchase price cannot be negative")
		return
	}

	asset, err := h.service.CreateAsset(c.Request.Context(), Asset{
		AssetID:       req.AssetID,
		SerialNumber:  req.SerialNumber,
		CategoryID:    req.CategoryID,
		Make:          req.Make,
		Model:         req.Model,
		Description:   req.Description,
		PurchaseDate:  req.PurchaseDate,
		PurchasePrice: req.PurchasePrice,
		Branch:        req.Branch,
	})
	if err != nil {
		if err == ErrDuplicateAsset {
			response.SendError(c, http.StatusBadRequest, "asset id or serial number already exists")
			return
		}
		if err == ErrCategoryNotFound {
			response.SendError(c, http.StatusNotFound, "category not found")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "asset created", asset)
}

// @Summary      Update an asset
// @Description  Administrative field overwrite; bypasses lifecycle guards and writes no ledger entry
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id   path      int  true  "Asset ID"
// @Param        request body AssetPatch true "Fields to overwrite"
// @Success      200  {object}  response.APIResponse{data=Asset} "Asset updated"
// @Failure      400  {object}  response.APIResponse "Invalid request"
// @Failure      404  {object}  response.APIResponse "Asset not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /assets/{id} [put]
func (h *AssetHandler) updateAsset(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendError(c, http.StatusBadRequest, "invalid asset id")
		return
	}

	var patch AssetPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.SendError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if patch.Status != nil && !IsValidStatus(*patch.Status) {
		response.SendError(c, http.StatusBadRequest, "invalid status")
		return
	}

	if patch.PurchasePrice != nil && *patch.PurchasePrice < 0 {
		response.SendError(c, http.StatusBadRequest, "purchase price cannot be negative")
		return
	}

	asset, err := h.service.UpdateAsset(c.Request.Context(), id, patch)
	if err != nil {
		switch err {
		case ErrAssetNotFound:
			response.SendError(c, http.StatusNotFound, "asset not found")
		case ErrDuplicateAsset:
			response.SendError(c, http.StatusBadRequest, "asset id or serial number already exists")
		case ErrCategoryNotFound:
			response.SendError(c, http.StatusNotFound, "category not found")
		case ErrEmployeeNotFound:
			response.SendError(c, http.StatusNotFound, "employee not found")
		default:
			response.SendError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "asset updated", asset)
}

// @Summary      Issue an asset
// @Description  Assigns an available asset to an employee and appends an issue ledger entry
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body issueAssetRequest true "Issue request"
// @Success      200  {object}  response.APIResponse{data=Asset} "Asset issued"
// @Failure      400  {object}  response.APIResponse "Asset not available for issue"
// @Failure      404  {object}  response.APIResponse "Employee not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /assets/issue [post]
func (h *AssetHandler) issueAsset(c *gin.Context) {
	var req issueAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	asset, err := h.service.IssueAsset(c.Request.Context(), req.AssetID, req.EmployeeID, req.Remarks)
	if err != nil {
		if err == ErrAssetNotAvailable {
			response.SendError(c, http.StatusBadRequest, "asset not available for issue")
			return
		}
		if err == ErrEmployeeNotFound {
			response.SendError(c, http.StatusNotFound, "employee not found")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "asset issued successfully", asset)
}

// @Summary      Return an asset
// @Description  Takes an assigned asset back and appends a return ledger entry
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body returnAssetRequest true "Return request"
// @Success      200  {object}  response.APIResponse{data=Asset} "Asset returned"
// @Failure      400  {object}  response.APIResponse "Asset not currently assigned"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /assets/return [post]
func (h *AssetHandler) returnAsset(c *gin.Context) {
	var req returnAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	asset, err := h.service.ReturnAsset(c.Request.Context(), req.AssetID, req.Reason, req.Remarks)
	if err != nil {
		if err == ErrAssetNotAssigned {
			response.SendError(c, http.StatusBadRequest, "asset not currently assigned")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "asset returned successfully", asset)
}

// @Summary      Scrap an asset
// @Description  Retires an asset from any status and appends a scrap ledger entry
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body returnAssetRequest true "Scrap request"
// @Success      200  {object}  response.APIResponse{data=Asset} "Asset scrapped"
// @Failure      400  {object}  response.APIResponse "Invalid request payload"
// @Failure      404  {object}  response.APIResponse "Asset not found"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /assets/scrap [post]
func (h *AssetHandler) scrapAsset(c *gin.Context) {
	var req returnAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	asset, err := h.service.ScrapAsset(c.Request.Context(), req.AssetID, req.Reason, req.Remarks)
	if err != nil {
		if err == ErrAssetNotFound {
			response.SendError(c, http.StatusNotFound, "asset not found")
			return
		}
		response.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "asset scrapped successfully", asset)
}
