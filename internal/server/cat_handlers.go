package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/b3uf/backoffice/internal/models"
)

// CreateCatRequest represents a request to register a cat
type CreateCatRequest struct {
	Name                 string  `json:"name" validate:"required,max=255"`
	Surname              string  `json:"surname" validate:"max=255"`
	IsFemale             bool    `json:"isFemale"`
	PedigreeNumber       string  `json:"pedigreeNumber" validate:"max=64"`
	IdentificationNumber string  `json:"identificationNumber" validate:"omitempty,alphanumdash,max=64"`
	IsNeutered           bool    `json:"isNeutered"`
	Notes                *string `json:"notes"`
}

// listCats returns the caller's cats, or every cat for admins
func (s *Server) listCats(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	query := s.db.Order("id ASC")
	if !sessionData.Admin {
		query = query.Where("created_by_cattery_id = ?", sessionData.UserID)
	}

	var cats []models.Cat
	if err := query.Find(&cats).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list cats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, cats)
}

func (s *Server) createCat(c *gin.Context) {
	var req CreateCatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	sessionData, _ := GetSessionData(c)

	cat := &models.Cat{
		Name:                 req.Name,
		Surname:              strings.TrimSpace(req.Surname),
		IsFemale:             req.IsFemale,
		PedigreeNumber:       strings.TrimSpace(req.PedigreeNumber),
		IdentificationNumber: req.IdentificationNumber,
		IsNeutered:           req.IsNeutered,
		Notes:                req.Notes,
		CreatedByCatteryID:   sessionData.UserID,
	}

	if err := s.db.Create(cat).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create cat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cat"})
		return
	}

	s.logger.Info().Uint("cat_id", cat.ID).Uint("created_by", sessionData.UserID).Msg("Cat created")

	c.JSON(http.StatusCreated, cat)
}
