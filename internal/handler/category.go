// internal/handler/category.go
package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	store storage.CategoryStorage
}

func NewCategoryHandler(store storage.CategoryStorage) *CategoryHandler {
	return &CategoryHandler{store: store}
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
	Type string `json:"type" validate:"required,categorytype"`
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return id, true
}

func (h *CategoryHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	categories, err := h.store.ListCategories(context.Background(), uid)
	if err != nil {
		respondError(c, err, "ListCategories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Categories retrieved successfully",
		"categories": categories,
	})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catType, err := domain.ParseCategoryType(req.Type)
	if err != nil {
		respondError(c, err, "CreateCategory")
		return
	}

	category := domain.Category{Name: req.Name, Type: catType, UserID: uid}
	if err := category.NormalizeName(); err != nil {
		respondError(c, err, "CreateCategory")
		return
	}

	if err := h.store.CreateCategory(context.Background(), &category); err != nil {
		respondError(c, err, "CreateCategory")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	category, err := h.store.GetCategory(context.Background(), uid, id)
	if err != nil {
		respondError(c, err, "GetCategory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Category retrieved successfully",
		"category": category,
	})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catType, err := domain.ParseCategoryType(req.Type)
	if err != nil {
		respondError(c, err, "UpdateCategory")
		return
	}

	// Owner is immutable; only name and type change.
	category := domain.Category{ID: id, Name: req.Name, Type: catType, UserID: uid}
	if err := category.NormalizeName(); err != nil {
		respondError(c, err, "UpdateCategory")
		return
	}

	if err := h.store.UpdateCategory(context.Background(), &category); err != nil {
		respondError(c, err, "UpdateCategory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Category updated successfully",
		"category": category,
	})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	category, err := h.store.GetCategory(context.Background(), uid, id)
	if err != nil {
		respondError(c, err, "DeleteCategory")
		return
	}
	if err := h.store.DeleteCategory(context.Background(), uid, id); err != nil {
		respondError(c, err, "DeleteCategory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Category %q deleted successfully", category.Name),
	})
}

func (h *CategoryHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Category types retrieved successfully",
		"types": []gin.H{
			{"value": string(domain.CategoryIncome), "label": "Income"},
			{"value": string(domain.CategoryExpense), "label": "Expense"},
		},
	})
}
