package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/models"
	"github.com/IstiakDeveloper/School-Management-Pro-sub003/internal/util"
)

// CategoryHandler owns income/expense category CRUD; plain enough that it
// talks to gorm directly.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type createCategoryReq struct {
	Name string `json:"name" binding:"required,max=64"`
	Type string `json:"type" binding:"required,oneof=income expense"`
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}
	cat := models.Category{Name: strings.TrimSpace(req.Name), Type: req.Type}
	if err := h.DB.Create(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save failed")
		return
	}
	util.Success(c, util.Response{"category": cat})
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	q := h.DB.Order("name ASC")
	if t := c.Query("type"); t == "income" || t == "expense" {
		q = q.Where("type = ?", t)
	}
	var cats []models.Category
	if err := q.Find(&cats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	util.Success(c, util.Response{"categories": cats})
}
