package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apikeyusecases "keygate/internal/application/apikey/usecases"
	"keygate/internal/domain/apikey"
	"keygate/internal/interfaces/http/middleware"
	"keygate/internal/shared/logger"
)

// APIKeyHandler exposes credential management for the acting account.
type APIKeyHandler struct {
	createAPIKey *apikeyusecases.CreateAPIKeyUseCase
	revokeAPIKey *apikeyusecases.RevokeAPIKeyUseCase
	listAPIKeys  *apikeyusecases.ListAPIKeysUseCase
	logger       logger.Interface
}

func NewAPIKeyHandler(
	createAPIKey *apikeyusecases.CreateAPIKeyUseCase,
	revokeAPIKey *apikeyusecases.RevokeAPIKeyUseCase,
	listAPIKeys *apikeyusecases.ListAPIKeysUseCase,
	logger logger.Interface,
) *APIKeyHandler {
	return &APIKeyHandler{
		createAPIKey: createAPIKey,
		revokeAPIKey: revokeAPIKey,
		listAPIKeys:  listAPIKeys,
		logger:       logger,
	}
}

type createAPIKeyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type apiKeyResponse struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"key_prefix"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type createAPIKeyResponse struct {
	apiKeyResponse
	// Key is the plaintext secret, shown exactly once.
	Key string `json:"key"`
}

// Create handles POST /api-keys.
func (h *APIKeyHandler) Create(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing account identity"})
		return
	}

	var req createAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	result, err := h.createAPIKey.Execute(c.Request.Context(), apikeyusecases.CreateAPIKeyCommand{
		AccountID: accountID,
		Name:      req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createAPIKeyResponse{
		apiKeyResponse: toAPIKeyResponse(result.Key),
		Key:            result.Secret,
	})
}

// List handles GET /api-keys.
func (h *APIKeyHandler) List(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing account identity"})
		return
	}

	keys, err := h.listAPIKeys.Execute(c.Request.Context(), apikeyusecases.ListAPIKeysCommand{AccountID: accountID})
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]apiKeyResponse, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, toAPIKeyResponse(key))
	}
	c.JSON(http.StatusOK, gin.H{"api_keys": responses})
}

// Revoke handles DELETE /api-keys/:id.
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing account identity"})
		return
	}

	keyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || keyID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key ID"})
		return
	}

	err = h.revokeAPIKey.Execute(c.Request.Context(), apikeyusecases.RevokeAPIKeyCommand{
		AccountID: accountID,
		KeyID:     uint(keyID),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revoked": true})
}

func toAPIKeyResponse(key *apikey.APIKey) apiKeyResponse {
	return apiKeyResponse{
		ID:         key.ID(),
		Name:       key.Name(),
		KeyPrefix:  key.KeyPrefix(),
		LastUsedAt: key.LastUsedAt(),
		ExpiresAt:  key.ExpiresAt(),
		CreatedAt:  key.CreatedAt(),
	}
}
