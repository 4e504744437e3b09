package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voloskyi/saffron-shop/config"
	"github.com/voloskyi/saffron-shop/editorial"
	"github.com/voloskyi/saffron-shop/models"
	"github.com/voloskyi/saffron-shop/utils"
)

const (
	assistantModel       = "gpt-4.1-mini"
	assistantTemperature = 0.4
	assistantMaxTokens   = 600
	maxQuestionRunes     = 1000
)

// AssistantController answers visitor questions about the shop. Each reply is
// grounded in the live catalog and recent articles so the model cannot invent
// products or prices.
type AssistantController struct {
	db     *gorm.DB
	client *editorial.OpenAIClient
}

// NewAssistantController creates an AssistantController.
func NewAssistantController(db *gorm.DB, client *editorial.OpenAIClient) *AssistantController {
	return &AssistantController{db: db, client: client}
}

// Ask answers a single free-form question.
func (a *AssistantController) Ask(ctx *gin.Context) {
	var req struct {
		Question string `json:"question"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		utils.Error(ctx, http.StatusBadRequest, 40051, "question must not be empty")
		return
	}
	if runes := []rune(question); len(runes) > maxQuestionRunes {
		question = string(runes[:maxQuestionRunes])
	}

	system := a.systemPrompt()
	reply, err := a.client.GenerateText(ctx.Request.Context(), assistantModel, system, question, assistantTemperature, assistantMaxTokens)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorw("assistant reply failed", "err", err)
		}
		utils.Error(ctx, http.StatusServiceUnavailable, 50330, "assistant is temporarily unavailable")
		return
	}

	utils.Success(ctx, gin.H{"reply": reply})
}

// systemPrompt assembles the grounding context from the catalog and the five
// newest posts. Failures to load context degrade to a shorter prompt rather
// than failing the request.
func (a *AssistantController) systemPrompt() string {
	cfg := config.Get()

	var b strings.Builder
	prompt := strings.TrimSpace(cfg.AssistantPrompt)
	if prompt == "" {
		prompt = fmt.Sprintf(
			"You are the helpful shopping assistant for %s, a premium saffron shop. "+
				"Answer briefly and truthfully using only the catalog and articles below. "+
				"If something is not in the catalog, say so instead of guessing.",
			cfg.ShopName,
		)
	}
	b.WriteString(prompt)

	var categories []models.Category
	if err := a.db.Order("name ASC").Find(&categories).Error; err == nil && len(categories) > 0 {
		b.WriteString("\n\nCategories:\n")
		for _, c := range categories {
			fmt.Fprintf(&b, "- %s\n", c.Name)
		}
	}

	var products []models.Product
	if err := a.db.Where("is_available = ?", true).Order("created_at DESC").Find(&products).Error; err == nil && len(products) > 0 {
		b.WriteString("\nAvailable products:\n")
		for _, p := range products {
			fmt.Fprintf(&b, "- %s — %.2f EUR: %s\n", p.Title, p.Price, utils.Excerpt(p.Description, 160))
		}
	}

	var posts []models.BlogPost
	if err := a.db.Select("id", "title", "created_at").Order("created_at DESC").Limit(5).Find(&posts).Error; err == nil && len(posts) > 0 {
		b.WriteString("\nRecent articles:\n")
		for _, p := range posts {
			fmt.Fprintf(&b, "- %s (%s)\n", p.Title, p.CreatedAt.Format("2006-01-02"))
		}
	}

	return b.String()
}
